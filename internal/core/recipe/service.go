package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜目錄服務：讀取、更新、刪除已儲存的食譜
type Service struct {
	store Store
	cache cache.Cache
}

// NewService 創建新的食譜服務，cache 可為 nil
func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

// List 依建立時間由新到舊列出所有食譜
func (s *Service) List(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get 取得單筆食譜，啟用快取時先查快取
func (s *Service) Get(ctx context.Context, id string) (*models.Recipe, error) {
	if r, ok := s.getFromCache(ctx, id); ok {
		return r, nil
	}

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setToCache(ctx, r)
	return r, nil
}

// Update 只更新有提供的欄位，分類、難度與營養值仍經過正規化
func (s *Service) Update(ctx context.Context, id string, patch RecipePatch) (*models.Recipe, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyPatch(r, patch); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, r); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return r, nil
}

func applyPatch(r *models.Recipe, p RecipePatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return common.NewValidationError("title", "title must not be empty")
		}
		if utf8.RuneCountInString(title) > models.MaxTitleLength {
			return common.NewValidationError("title",
				fmt.Sprintf("title must be at most %d characters", models.MaxTitleLength))
		}
		r.Title = title
	}
	if p.Description != nil {
		r.Description = p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = p.Instructions
	}
	if p.PortionSize != nil {
		portion := strings.TrimSpace(*p.PortionSize)
		if utf8.RuneCountInString(portion) > models.MaxPortionSizeLength {
			return common.NewValidationError("portionSize",
				fmt.Sprintf("portionSize must be at most %d characters", models.MaxPortionSizeLength))
		}
		r.PortionSize = portion
	}
	if p.Category != nil {
		r.Category = NormalizeCategory(*p.Category)
	}
	if p.Difficulty != nil {
		d := models.Difficulty(strings.ToLower(strings.TrimSpace(*p.Difficulty)))
		if !d.Valid() {
			return common.NewValidationError("difficulty", "difficulty must be one of easy, medium, hard")
		}
		r.Difficulty = d
	}
	if p.NutritionalInfo != nil {
		n := &r.NutritionalInfo
		for key, v := range p.NutritionalInfo {
			switch key {
			case "calories":
				n.Calories = CoerceNutrient(v)
			case "protein":
				n.Protein = CoerceNutrient(v)
			case "fat":
				n.Fat = CoerceNutrient(v)
			case "carbs":
				n.Carbs = CoerceNutrient(v)
			}
		}
	}
	if p.Image != nil {
		r.Image = *p.Image
	}
	return nil
}

// Delete 刪除食譜
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Save 收藏食譜（尚未實作，只確認食譜存在）
func (s *Service) Save(ctx context.Context, id string) (*models.Recipe, error) {
	return s.Get(ctx, id)
}

// Rate 評分食譜（尚未實作，只確認食譜存在）
func (s *Service) Rate(ctx context.Context, id string) (*models.Recipe, error) {
	return s.Get(ctx, id)
}

func (s *Service) getFromCache(ctx context.Context, id string) (*models.Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, cache.RecipeKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}

	var r models.Recipe
	if err := common.ParseJSON(data, &r); err != nil {
		common.LogWarn("快取內容損毀", zap.String("id", id), zap.Error(err))
		s.invalidate(ctx, id)
		return nil, false
	}
	return &r, true
}

func (s *Service) setToCache(ctx context.Context, r *models.Recipe) {
	if s.cache == nil {
		return
	}
	data, err := common.ToJSON(r)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.RecipeKey(r.ID), data); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("id", r.ID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.RecipeKey(id)); err != nil {
		common.LogWarn("清除快取失敗", zap.String("id", id), zap.Error(err))
	}
}
