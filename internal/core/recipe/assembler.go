package recipe

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"recipe-catalog/internal/models"
)

// draft 模型宣稱的食譜內容，所有欄位都不可信，只能交給正規化函式處理
type draft struct {
	title        any
	description  any
	ingredients  any
	instructions any
	nutrition    any
	present      map[string]bool
}

func newDraft(v any) (*draft, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, assemblyError("root", fmt.Errorf("expected a JSON object, got %s", kindName(v)))
	}

	d := &draft{present: make(map[string]bool, len(obj))}
	for k := range obj {
		d.present[k] = true
	}
	d.title = obj["title"]
	d.description = obj["description"]
	d.ingredients = obj["ingredients"]
	d.instructions = obj["instructions"]
	d.nutrition = obj["nutritionalInfo"]
	if d.nutrition == nil {
		d.nutrition = obj["nutritional_info"]
	}
	return d, nil
}

// Assemble 將解析後的草稿與請求欄位組成正規化的 Recipe。
// portionSize 與 difficulty 以請求為準，category 由請求經 NormalizeCategory 決定。
func Assemble(parsed any, req RecipeRequest) (*models.Recipe, error) {
	d, err := newDraft(parsed)
	if err != nil {
		return nil, err
	}

	title, ok := d.title.(string)
	if !ok {
		return nil, assemblyError("title", missingOrType(d.present["title"], d.title, "string"))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, assemblyError("title", errors.New("title is empty"))
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, assemblyError("title", fmt.Errorf("title exceeds %d characters", models.MaxTitleLength))
	}

	description, err := stringList(d.description, d.present["description"])
	if err != nil {
		return nil, assemblyError("description", err)
	}

	rawIngredients, ok := d.ingredients.([]any)
	if !ok {
		return nil, assemblyError("ingredients", missingOrType(d.present["ingredients"], d.ingredients, "array"))
	}

	instructions, err := stringList(d.instructions, d.present["instructions"])
	if err != nil {
		return nil, assemblyError("instructions", err)
	}

	nutrition, _ := d.nutrition.(map[string]any)

	return &models.Recipe{
		Title:           title,
		Description:     description,
		Ingredients:     FlattenIngredients(rawIngredients),
		Instructions:    instructions,
		PortionSize:     req.PortionSize,
		Category:        NormalizeCategory(req.Category),
		Difficulty:      models.Difficulty(req.Difficulty),
		NutritionalInfo: CoerceNutrition(nutrition),
		Image:           models.DefaultImage,
		Ratings:         []models.Rating{},
		SavedBy:         models.StringArray{},
		Tags:            models.StringArray{},
	}, nil
}

// stringList 接受字串陣列或單一字串
func stringList(v any, present bool) (models.StringArray, error) {
	switch t := v.(type) {
	case string:
		return models.StringArray{t}, nil
	case []any:
		out := make(models.StringArray, len(t))
		for i, item := range t {
			out[i] = textOf(item)
		}
		return out, nil
	}
	return nil, missingOrType(present, v, "array of strings")
}

func missingOrType(present bool, v any, want string) error {
	if !present || v == nil {
		return errors.New("field is missing")
	}
	return fmt.Errorf("expected %s, got %s", want, kindName(v))
}

func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
