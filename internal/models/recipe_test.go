package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayValueScan(t *testing.T) {
	v, err := StringArray{"a", "b c"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b c"]`, v)

	empty, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	var a StringArray
	require.NoError(t, a.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, StringArray{"x", "y"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("Veg").Valid())
	assert.False(t, Category("").Valid())
}

func TestDifficultyValid(t *testing.T) {
	assert.True(t, DifficultyEasy.Valid())
	assert.True(t, DifficultyMedium.Valid())
	assert.True(t, DifficultyHard.Valid())
	assert.False(t, Difficulty("Easy").Valid())
}

func TestBeforeCreateDefaults(t *testing.T) {
	r := &Recipe{Title: "Soup"}
	require.NoError(t, r.BeforeCreate(nil))

	assert.Len(t, r.ID, 36)
	assert.Equal(t, DefaultImage, r.Image)
	assert.Equal(t, CategoryOther, r.Category)
	assert.NotNil(t, r.Ratings)
	assert.NotNil(t, r.SavedBy)
	assert.NotNil(t, r.Tags)

	keep := &Recipe{ID: "fixed", Image: "x.png", Category: CategoryVegan}
	require.NoError(t, keep.BeforeCreate(nil))
	assert.Equal(t, "fixed", keep.ID)
	assert.Equal(t, "x.png", keep.Image)
	assert.Equal(t, CategoryVegan, keep.Category)
}
