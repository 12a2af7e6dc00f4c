package recipe

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"
)

// RecipeRequest 生成食譜的請求
type RecipeRequest struct {
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	PortionSize string   `json:"portionSize" yaml:"portionSize"`
	Category    string   `json:"category" yaml:"category"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
}

// Validate 驗證並正規化請求：去除空白食材、難度轉小寫
func (r *RecipeRequest) Validate() error {
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if s := strings.TrimSpace(ing); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	if len(ingredients) == 0 {
		return common.NewValidationError("ingredients", "at least one ingredient is required")
	}
	r.Ingredients = ingredients

	if strings.TrimSpace(r.PortionSize) == "" {
		return common.NewValidationError("portionSize", "portionSize is required")
	}
	return r.normalizeOptions()
}

// normalizeOptions 正規化會直接寫入食譜的請求欄位；離線正規化也會經過這裡
func (r *RecipeRequest) normalizeOptions() error {
	r.PortionSize = strings.TrimSpace(r.PortionSize)
	if utf8.RuneCountInString(r.PortionSize) > models.MaxPortionSizeLength {
		return common.NewValidationError("portionSize",
			fmt.Sprintf("portionSize must be at most %d characters", models.MaxPortionSizeLength))
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if !models.Difficulty(r.Difficulty).Valid() {
		return common.NewValidationError("difficulty", "difficulty must be one of easy, medium, hard")
	}
	return nil
}

// RecipePatch 更新食譜，nil 欄位表示不變更
type RecipePatch struct {
	Title           *string        `json:"title"`
	Description     []string       `json:"description"`
	Ingredients     []string       `json:"ingredients"`
	Instructions    []string       `json:"instructions"`
	PortionSize     *string        `json:"portionSize"`
	Category        *string        `json:"category"`
	Difficulty      *string        `json:"difficulty"`
	NutritionalInfo map[string]any `json:"nutritionalInfo"`
	Image           *string        `json:"image"`
}

// ModelClient 生成模型客戶端
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store 食譜持久化介面，找不到時回傳 ErrRecipeNotFound
type Store interface {
	Create(ctx context.Context, r *models.Recipe) error
	Get(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context) ([]models.Recipe, error)
	Update(ctx context.Context, r *models.Recipe) error
	Delete(ctx context.Context, id string) error
}
