package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"recipe-catalog/internal/core/ai/provider"
	"recipe-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Google Gemini generateContent 客戶端
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(cfg provider.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{client: client, model: cfg.Model, maxTokens: cfg.MaxTokens}, nil
}

// Name implements provider.Provider
func (c *Client) Name() string { return "gemini" }

// GetModel implements provider.Provider
func (c *Client) GetModel() string { return c.model }

// Generate 呼叫 models/{model}:generateContent
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: provider.JoinUserContent(req)}}}},
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens > 0 || req.Temperature > 0 {
		body.GenerationConfig = &generationConfig{MaxOutputTokens: maxTokens, Temperature: req.Temperature}
	}

	var result generateResponse
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)))
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = common.Preview(resp.String(), 300)
		}
		common.LogError("Gemini API returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.model),
			zap.String("status", apiErr.Error.Status),
		)
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode(), msg)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("gemini blocked prompt: %s", result.PromptFeedback.BlockReason)
		}
		return nil, errors.New("no candidates in Gemini response")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return &provider.Response{
		Content: sb.String(),
		Usage: provider.Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
