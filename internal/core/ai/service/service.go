package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-catalog/internal/core/ai/gemini"
	"recipe-catalog/internal/core/ai/openai"
	"recipe-catalog/internal/core/ai/openrouter"
	"recipe-catalog/internal/core/ai/provider"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var modelRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Generative model request latency in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	},
	[]string{"provider", "status"},
)

// Service AI 服務，對外提供 Generate(ctx, prompt)
type Service struct {
	provider  provider.Provider
	maxTokens int
}

// NewService 依設定建立對應的提供者
func NewService(cfg config.LLMConfig) (*Service, error) {
	pcfg := provider.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.Timeout,
	}

	var (
		p   provider.Provider
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini, "":
		p, err = gemini.NewClient(pcfg)
	case config.ProviderOpenRouter:
		p, err = openrouter.NewClient(pcfg)
	case config.ProviderOpenAI:
		p, err = openai.NewClient(pcfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewWithProvider(p, cfg.MaxTokens), nil
}

// NewWithProvider 以既有提供者建立服務
func NewWithProvider(p provider.Provider, maxTokens int) *Service {
	return &Service{provider: p, maxTokens: maxTokens}
}

// Generate 送出提示詞並回傳模型原始文字；空白內容照樣回傳，由解析階段判定
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := s.provider.Generate(ctx, provider.UserPrompt(prompt, s.maxTokens))
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	modelRequestDuration.WithLabelValues(s.provider.Name(), status).Observe(duration.Seconds())
	common.LogModelCall(s.provider.Name(), s.provider.GetModel(), duration, err, common.RequestIDFromContext(ctx))

	if err != nil {
		return "", fmt.Errorf("%s: %w", s.provider.Name(), err)
	}
	return resp.Content, nil
}

// Provider 目前使用的提供者名稱
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// Close 關閉提供者
func (s *Service) Close() error {
	return s.provider.Close()
}
