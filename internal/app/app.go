// Package app 組裝資料庫、快取、生成模型與匯入管線，供 API 服務與 CLI 共用。
package app

import (
	"errors"
	"strings"

	aiService "recipe-catalog/internal/core/ai/service"
	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/infrastructure/database"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 已初始化的服務集合
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Store   *database.RecipeStore
	Cache   cache.Cache
	Catalog *recipe.Service
	Model   *aiService.Service

	// Ingestor 為 nil 時 IngestErr 說明原因（通常是未設定模型憑證）
	Ingestor  *recipe.Ingestor
	IngestErr error
}

// New 依設定初始化所有服務。
// 未設定模型憑證不會讓啟動失敗，只有建立食譜會回傳 ConfigurationError。
func New(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Store:  database.NewRecipeStore(db),
		Cache:  c,
	}
	a.Catalog = recipe.NewService(a.Store, c)

	var model recipe.ModelClient
	if strings.TrimSpace(cfg.LLM.APIKey) != "" {
		svc, err := aiService.NewService(cfg.LLM)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Model = svc
		model = svc
	}

	a.Ingestor, a.IngestErr = recipe.NewIngestor(recipe.IngestorConfig{
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	}, model, a.Store)
	if a.IngestErr != nil {
		common.LogWarn("食譜生成停用",
			zap.String("provider", cfg.LLM.Provider),
			zap.Error(a.IngestErr),
		)
	} else {
		common.LogInfo("食譜生成啟用",
			zap.String("provider", a.Model.Provider()),
			zap.String("model", a.Model.Model()),
			zap.String("api_key", common.MaskSecret(cfg.LLM.APIKey)),
		)
	}

	return a, nil
}

// Close 依序關閉模型、快取與資料庫
func (a *App) Close() error {
	var errs []error
	if a.Model != nil {
		errs = append(errs, a.Model.Close())
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}
