package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"recipe-catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "fenced json", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n[1,2]\n```\n", want: "[1,2]"},
		{name: "upper case tag", in: "```JSON {} ```", want: "{}"},
		{name: "no markers", in: "  {\"a\": \"b c\"}  ", want: `{"a": "b c"}`},
		{name: "inner content untouched", in: "```json\n{\"t\":\"json\"}```", want: `{"t":"json"}`},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestParseValidTextSkipsRepair(t *testing.T) {
	res, err := Parse(`{"a":1,"b":[1,2]}`, "raw")
	require.NoError(t, err)
	assert.False(t, res.Repaired)

	obj := res.Value.(map[string]any)
	assert.Equal(t, json.Number("1"), obj["a"])
}

func TestParseRepairsTrailingSeparators(t *testing.T) {
	tests := []string{
		`{"a":1,}`,
		`{"a":[1,2,]}`,
		"{\"a\":{\"b\":1,\n  },\n}",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			res, err := Parse(in, in)
			require.NoError(t, err)
			assert.True(t, res.Repaired)
			assert.Contains(t, res.Value.(map[string]any), "a")
		})
	}
}

func TestParseFailureCarriesRawResponse(t *testing.T) {
	raw := "```json\n{\"title\":\"Soup,}\n```"
	_, err := Parse(Sanitize(raw), raw)
	require.Error(t, err)

	assert.True(t, IsKind(err, MalformedResponseError))
	var ie *IngestionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, raw, ie.Raw)
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse(`{"a":1} {"b":2}`, "raw")
	assert.True(t, IsKind(err, MalformedResponseError))
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]models.Category{
		"Non-Veg!":        models.CategoryNonVegetarian,
		"non_vegetarian":  models.CategoryNonVegetarian,
		"NONVEG":          models.CategoryNonVegetarian,
		"veg":             models.CategoryVegetarian,
		" Vegetarian ":    models.CategoryVegetarian,
		"VEGAN":           models.CategoryVegan,
		"spicy 🌶":         models.CategorySpicy,
		"Italian":         models.CategoryOther,
		"":                models.CategoryOther,
		"123":             models.CategoryOther,
		"vegan-ish":       models.CategoryOther,
		"végétarien":      models.CategoryOther,
		"non vegetarian!": models.CategoryNonVegetarian,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := NormalizeCategory(in)
			assert.Equal(t, want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestCoerceNutrient(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{in: "250 kcal", want: 250},
		{in: "12.345g", want: 12.35},
		{in: "12.344g", want: 12.34},
		{in: "1.005", want: 1.01},
		{in: nil, want: 0},
		{in: "abc", want: 0},
		{in: "", want: 0},
		{in: false, want: 0},
		{in: true, want: 0},
		{in: json.Number("0"), want: 0},
		{in: json.Number("31.5"), want: 31.5},
		{in: json.Number("2e2"), want: 200},
		{in: 7.129, want: 7.13},
		{in: "-5g", want: 5},
		{in: "10-12 g", want: 1012},
		{in: "1.5.2", want: 1.5},
		{in: ".5", want: 0.5},
		{in: ".", want: 0},
		{in: "9.999", want: 10},
		{in: map[string]any{"v": 1}, want: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			got := CoerceNutrient(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.False(t, math.IsNaN(got))
			assert.Equal(t, got, math.Round(got*100)/100, "at most two decimals")
		})
	}
}

func TestCoerceNutrition(t *testing.T) {
	n := CoerceNutrition(map[string]any{"calories": "310 kcal", "protein": json.Number("12"), "fat": nil})
	assert.Equal(t, models.NutritionalInfo{Calories: 310, Protein: 12}, n)
	assert.Equal(t, models.NutritionalInfo{}, CoerceNutrition(nil))
}

func TestFlattenIngredients(t *testing.T) {
	in := []any{
		"Salt",
		map[string]any{"item": "Rice", "amount": "200", "unit": "g"},
		map[string]any{"item": "Eggs", "amount": json.Number("2")},
		map[string]any{"item": "Pepper"},
		map[string]any{},
		json.Number("3"),
		nil,
	}
	got := FlattenIngredients(in)

	require.Len(t, got, len(in))
	assert.Equal(t, []string{"Salt", "200 g Rice", "2 Eggs", "Pepper", "", "3", ""}, got)
}

func TestFlattenIngredientsEmpty(t *testing.T) {
	assert.Equal(t, []string{}, FlattenIngredients([]any{}))
}

func validDraft() map[string]any {
	return map[string]any{
		"title":        "Tomato Rice",
		"description":  []any{"Quick", "Tasty"},
		"ingredients":  []any{"Tomato", map[string]any{"item": "Rice", "amount": "1", "unit": "cup"}},
		"instructions": []any{"Cook rice", "Add tomato"},
		"nutritionalInfo": map[string]any{
			"calories": "310 kcal",
			"protein":  "8g",
			"fat":      json.Number("4.256"),
			"carbs":    "60",
		},
	}
}

func TestAssemble(t *testing.T) {
	req := RecipeRequest{PortionSize: "2 servings", Category: "Veg", Difficulty: "easy"}

	r, err := Assemble(validDraft(), req)
	require.NoError(t, err)

	assert.Equal(t, "Tomato Rice", r.Title)
	assert.Equal(t, models.StringArray{"Quick", "Tasty"}, r.Description)
	assert.Equal(t, models.StringArray{"Tomato", "1 cup Rice"}, r.Ingredients)
	assert.Equal(t, models.StringArray{"Cook rice", "Add tomato"}, r.Instructions)
	assert.Equal(t, "2 servings", r.PortionSize)
	assert.Equal(t, models.CategoryVegetarian, r.Category)
	assert.Equal(t, models.DifficultyEasy, r.Difficulty)
	assert.Equal(t, models.NutritionalInfo{Calories: 310, Protein: 8, Fat: 4.26, Carbs: 60}, r.NutritionalInfo)
	assert.Equal(t, models.DefaultImage, r.Image)
	assert.Empty(t, r.Ratings)
}

func TestAssembleRequestIsAuthoritative(t *testing.T) {
	d := validDraft()
	d["portionSize"] = "10 servings"
	d["difficulty"] = "hard"
	d["category"] = "vegan"

	r, err := Assemble(d, RecipeRequest{PortionSize: "1 bowl", Category: "spicy", Difficulty: "medium"})
	require.NoError(t, err)
	assert.Equal(t, "1 bowl", r.PortionSize)
	assert.Equal(t, models.DifficultyMedium, r.Difficulty)
	assert.Equal(t, models.CategorySpicy, r.Category)
}

func TestAssembleLenientShapes(t *testing.T) {
	d := validDraft()
	d["description"] = "One line"
	d["instructions"] = []any{"Step", json.Number("2")}
	delete(d, "nutritionalInfo")
	d["nutritional_info"] = map[string]any{"calories": 100}

	r, err := Assemble(d, RecipeRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{"One line"}, r.Description)
	assert.Equal(t, models.StringArray{"Step", "2"}, r.Instructions)
	assert.Equal(t, 100.0, r.NutritionalInfo.Calories)
	assert.Equal(t, models.CategoryOther, r.Category)
}

func TestAssembleMissingNutritionDefaultsToZero(t *testing.T) {
	d := validDraft()
	d["nutritionalInfo"] = "unknown"

	r, err := Assemble(d, RecipeRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.NutritionalInfo{}, r.NutritionalInfo)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d map[string]any)
		field  string
	}{
		{name: "missing title", mutate: func(d map[string]any) { delete(d, "title") }, field: "title"},
		{name: "blank title", mutate: func(d map[string]any) { d["title"] = "  " }, field: "title"},
		{name: "numeric title", mutate: func(d map[string]any) { d["title"] = json.Number("1") }, field: "title"},
		{name: "missing description", mutate: func(d map[string]any) { delete(d, "description") }, field: "description"},
		{name: "missing ingredients", mutate: func(d map[string]any) { delete(d, "ingredients") }, field: "ingredients"},
		{name: "null ingredients", mutate: func(d map[string]any) { d["ingredients"] = nil }, field: "ingredients"},
		{name: "object ingredients", mutate: func(d map[string]any) { d["ingredients"] = map[string]any{} }, field: "ingredients"},
		{name: "missing instructions", mutate: func(d map[string]any) { delete(d, "instructions") }, field: "instructions"},
		{name: "overlong title", mutate: func(d map[string]any) { d["title"] = strings.Repeat("t", models.MaxTitleLength+1) }, field: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)

			r, err := Assemble(d, RecipeRequest{})
			assert.Nil(t, r)
			require.Error(t, err)

			var ie *IngestionError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, AssemblyError, ie.Kind)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestAssembleRejectsNonObject(t *testing.T) {
	_, err := Assemble([]any{"a"}, RecipeRequest{})
	var ie *IngestionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, AssemblyError, ie.Kind)
	assert.Equal(t, "root", ie.Field)
}

func TestRecipeRequestValidate(t *testing.T) {
	req := RecipeRequest{Ingredients: []string{" Tomato ", "", "  "}, PortionSize: " 2 ", Difficulty: "EASY"}
	require.NoError(t, req.Validate())
	assert.Equal(t, []string{"Tomato"}, req.Ingredients)
	assert.Equal(t, "2", req.PortionSize)
	assert.Equal(t, "easy", req.Difficulty)

	tests := []struct {
		name string
		req  RecipeRequest
	}{
		{name: "no ingredients", req: RecipeRequest{Ingredients: []string{" "}, PortionSize: "1", Difficulty: "easy"}},
		{name: "no portion", req: RecipeRequest{Ingredients: []string{"a"}, Difficulty: "easy"}},
		{name: "bad difficulty", req: RecipeRequest{Ingredients: []string{"a"}, PortionSize: "1", Difficulty: "extreme"}},
		{name: "overlong portion", req: RecipeRequest{Ingredients: []string{"a"}, PortionSize: strings.Repeat("9", models.MaxPortionSizeLength+1), Difficulty: "easy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Equal(t, ErrorKind(""), KindOf(err))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(RecipeRequest{
		Ingredients: []string{"Tomato", "Onion", "Rice"},
		PortionSize: "2 servings",
		Category:    "Veg",
		Difficulty:  "easy",
	})
	assert.Contains(t, p, "- Portion size: 2 servings")
	assert.Contains(t, p, "- Category: Veg")
	assert.Contains(t, p, "- Difficulty: easy")
	assert.Contains(t, p, "- Ingredients: Tomato, Onion, Rice")
	assert.Contains(t, p, `"nutritionalInfo"`)
}

func TestIngestionErrorMessage(t *testing.T) {
	err := assemblyError("title", fmt.Errorf("field is missing"))
	assert.Equal(t, `AssemblyError (field "title"): field is missing`, err.Error())
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", err), AssemblyError))
	assert.False(t, IsKind(err, PersistenceError))
	assert.False(t, IsKind(fmt.Errorf("plain"), AssemblyError))
}
