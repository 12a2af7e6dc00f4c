package recipe

import (
	"strings"

	"recipe-catalog/internal/models"
)

var categoryLookup = map[string]models.Category{
	"veg":           models.CategoryVegetarian,
	"vegetarian":    models.CategoryVegetarian,
	"nonveg":        models.CategoryNonVegetarian,
	"nonvegetarian": models.CategoryNonVegetarian,
	"vegan":         models.CategoryVegan,
	"spicy":         models.CategorySpicy,
}

// NormalizeCategory 將任意分類文字對應到固定列舉，無法辨識時為 other
func NormalizeCategory(input string) models.Category {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if c, ok := categoryLookup[b.String()]; ok {
		return c
	}
	return models.CategoryOther
}
