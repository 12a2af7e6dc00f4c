package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// IngestorConfig 匯入管線設定
type IngestorConfig struct {
	APIKey  string
	Timeout time.Duration
}

// Ingestor 把生成模型回應轉為已驗證並儲存的食譜
type Ingestor struct {
	model   ModelClient
	store   Store
	timeout time.Duration
}

// NewIngestor 建立匯入管線；未設定模型憑證時回傳 ConfigurationError
func NewIngestor(cfg IngestorConfig, model ModelClient, store Store) (*Ingestor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, configurationError(ErrMissingCredential)
	}
	if model == nil {
		return nil, configurationError(errors.New("model client is required"))
	}
	if store == nil {
		return nil, configurationError(errors.New("recipe store is required"))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Ingestor{model: model, store: store, timeout: timeout}, nil
}

// Ingest 根據請求生成、正規化並儲存一筆食譜
func (i *Ingestor) Ingest(ctx context.Context, req RecipeRequest) (recipe *models.Recipe, err error) {
	start := time.Now()
	defer func() {
		outcome := outcomeLabel(err)
		ingestTotal.WithLabelValues(outcome).Inc()
		ingestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := i.generate(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	recipe, err = i.Normalize(raw, req)
	if err != nil {
		return nil, err
	}

	if err := i.store.Create(ctx, recipe); err != nil {
		common.LogError("食譜儲存失敗", zap.Error(err))
		return nil, persistenceError(err)
	}

	common.LogInfo("食譜已建立",
		zap.String("id", recipe.ID),
		zap.String("title", recipe.Title),
		zap.String("category", string(recipe.Category)),
		zap.Duration("耗時", time.Since(start)),
	)
	return recipe, nil
}

// generate 在期限內呼叫生成模型，任何失敗都視為 UpstreamModelError
func (i *Ingestor) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	raw, err := i.model.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("model call exceeded %s: %w", i.timeout, err)
		}
		return "", upstreamError(err)
	}
	return raw, nil
}

// Normalize 對模型原始回應執行 sanitize → parse → assemble，不呼叫模型也不寫入儲存層
func (i *Ingestor) Normalize(raw string, req RecipeRequest) (*models.Recipe, error) {
	return Normalize(raw, req)
}

// Normalize 同 Ingestor.Normalize，供離線工具使用；請求的份量與難度同樣會被正規化與檢查
func Normalize(raw string, req RecipeRequest) (*models.Recipe, error) {
	if err := req.normalizeOptions(); err != nil {
		return nil, err
	}

	parsed, err := Parse(Sanitize(raw), raw)
	if err != nil {
		common.LogWarn("模型回應無法解析",
			zap.Int("raw_length", len(raw)),
			zap.String("raw_preview", common.Preview(raw, 200)),
			zap.Error(err),
		)
		return nil, err
	}
	if parsed.Repaired {
		parseRepairs.Inc()
	}

	recipe, err := Assemble(parsed.Value, req)
	if err != nil {
		var ie *IngestionError
		if errors.As(err, &ie) {
			common.LogWarn("食譜組裝失敗", zap.String("field", ie.Field), zap.Error(err))
		}
		return nil, err
	}
	return recipe, nil
}
