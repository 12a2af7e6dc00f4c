package database

import (
	"context"
	"errors"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/models"

	"gorm.io/gorm"
)

// RecipeStore 以 gorm 實作 recipe.Store
type RecipeStore struct {
	db *gorm.DB
}

// NewRecipeStore creates a new RecipeStore
func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

var _ recipe.Store = (*RecipeStore)(nil)

// Create 寫入一筆新食譜，ID 由 BeforeCreate 指派
func (s *RecipeStore) Create(ctx context.Context, r *models.Recipe) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// Get retrieves a recipe by ID
func (s *RecipeStore) Get(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, err
	}
	return &r, nil
}

// List 依建立時間由新到舊列出
func (s *RecipeStore) List(ctx context.Context) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Update 覆寫食譜所有欄位（建立時間除外）
func (s *RecipeStore) Update(ctx context.Context, r *models.Recipe) error {
	res := s.db.WithContext(ctx).Model(r).Select("*").Omit("id", "created_at").Updates(r)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// Delete deletes a recipe
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}
