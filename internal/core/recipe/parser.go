package recipe

import (
	"fmt"
	"regexp"

	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

var trailingSeparator = regexp.MustCompile(`,\s*([}\]])`)

// ParseResult 解析結果
type ParseResult struct {
	Value    any
	Repaired bool
}

// Parse 嚴格解析 sanitized 文字；失敗時移除一次結尾逗號後再解析一次。
// raw 為未經處理的模型原文，兩次都失敗時附在 MalformedResponseError 上。
func Parse(sanitized, raw string) (*ParseResult, error) {
	var v any
	firstErr := common.ParseJSON(sanitized, &v)
	if firstErr == nil {
		return &ParseResult{Value: v}, nil
	}

	repaired := trailingSeparator.ReplaceAllString(sanitized, "$1")
	v = nil
	if err := common.ParseJSON(repaired, &v); err != nil {
		return nil, malformedError(raw, fmt.Errorf("parse model response: %w", err))
	}

	common.LogDebug("模型回應經修復後解析成功", zap.NamedError("first_error", firstErr))
	return &ParseResult{Value: v, Repaired: true}, nil
}
