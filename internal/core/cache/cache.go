package cache

import (
	"context"
	"errors"
	"fmt"

	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

// ErrCacheMiss 鍵不存在或已過期
var ErrCacheMiss = errors.New("cache miss")

// Cache 已儲存食譜的讀取快取
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New 依設定建立快取，停用時回傳 nil
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewManager(cfg), nil
	case "redis":
		svc, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

// RecipeKey 食譜快取鍵
func RecipeKey(id string) string {
	return "recipe:" + id
}
