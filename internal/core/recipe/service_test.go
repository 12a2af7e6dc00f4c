package recipe

import (
	"context"
	"strings"
	"testing"
	"time"

	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store *memStore) *models.Recipe {
	t.Helper()
	r, err := Normalize(fencedResponse, scenarioRequest())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), r))
	return r
}

func newCachedService(t *testing.T, store *memStore) *Service {
	t.Helper()
	m := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	t.Cleanup(func() { _ = m.Close() })
	return NewService(store, m)
}

func TestServiceGetUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := seed(t, store)
	svc := newCachedService(t, store)

	first, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, store.gets)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.NutritionalInfo, second.NutritionalInfo)
}

func TestServiceGetNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestServiceUpdatePartial(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := seed(t, store)
	svc := newCachedService(t, store)

	_, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)

	title := "Better Rice"
	category := "NON-VEG"
	difficulty := "Hard"
	updated, err := svc.Update(ctx, r.ID, RecipePatch{
		Title:           &title,
		Category:        &category,
		Difficulty:      &difficulty,
		NutritionalInfo: map[string]any{"calories": "99.999 kcal"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Better Rice", updated.Title)
	assert.Equal(t, models.CategoryNonVegetarian, updated.Category)
	assert.Equal(t, models.DifficultyHard, updated.Difficulty)
	assert.Equal(t, 100.0, updated.NutritionalInfo.Calories)
	assert.Equal(t, r.NutritionalInfo.Protein, updated.NutritionalInfo.Protein)
	assert.Equal(t, r.Ingredients, updated.Ingredients)
	assert.Equal(t, r.PortionSize, updated.PortionSize)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better Rice", got.Title, "cache must be invalidated on update")
}

func TestServiceUpdateValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := seed(t, store)
	svc := NewService(store, nil)

	bad := "extreme"
	_, err := svc.Update(ctx, r.ID, RecipePatch{Difficulty: &bad})
	assert.True(t, common.IsValidationError(err))

	blank := " "
	_, err = svc.Update(ctx, r.ID, RecipePatch{Title: &blank})
	assert.True(t, common.IsValidationError(err))

	long := strings.Repeat("t", models.MaxTitleLength+1)
	_, err = svc.Update(ctx, r.ID, RecipePatch{Title: &long})
	assert.True(t, common.IsValidationError(err))

	portion := strings.Repeat("p", models.MaxPortionSizeLength+1)
	_, err = svc.Update(ctx, r.ID, RecipePatch{PortionSize: &portion})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Update(ctx, "missing", RecipePatch{})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := seed(t, store)
	svc := newCachedService(t, store)

	_, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, r.ID))

	_, err = svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), ErrRecipeNotFound)
}

func TestServiceListAndStubs(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	r := seed(t, store)
	svc := NewService(store, nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)

	saved, err := svc.Save(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, saved.ID)
	assert.Empty(t, saved.SavedBy)

	_, err = svc.Rate(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
