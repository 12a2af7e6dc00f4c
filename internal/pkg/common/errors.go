package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
	Field   string `json:"field,omitempty"`   // 組裝失敗時缺少的欄位
	Raw     string `json:"raw,omitempty"`     // 無法解析的模型原始回應
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 支援 errors.Is / errors.As
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithErr 複製預定義錯誤並附加原始錯誤
func (e *CustomError) WithErr(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// Response 轉換為 API 錯誤響應，debug 模式附帶原始錯誤
func (e *CustomError) Response(debug bool) ErrorResponse {
	resp := ErrorResponse{Code: e.Code, Message: e.Message}
	if debug && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示請求驗證錯誤
type ValidationError struct {
	Field   string
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, message: message}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"       // 500
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"  // 500
	ErrCodePersistence        = "PERSISTENCE_ERROR"    // 500
	ErrCodeUpstreamModel      = "UPSTREAM_MODEL_ERROR" // 502
	ErrCodeMalformedResponse  = "MALFORMED_RESPONSE"   // 502
	ErrCodeAssembly           = "ASSEMBLY_ERROR"       // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"  // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"      // 504
)

// 預定義錯誤
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "recipe not found", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrConfiguration      = NewError(ErrCodeConfiguration, "generative model credential is not configured", http.StatusInternalServerError, nil)
	ErrPersistence        = NewError(ErrCodePersistence, "failed to store recipe", http.StatusInternalServerError, nil)
	ErrUpstreamModel      = NewError(ErrCodeUpstreamModel, "failed to generate recipe", http.StatusBadGateway, nil)
	ErrMalformedResponse  = NewError(ErrCodeMalformedResponse, "model response is not valid JSON", http.StatusBadGateway, nil)
	ErrAssembly           = NewError(ErrCodeAssembly, "model response is missing a required field", http.StatusBadGateway, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "request timeout", http.StatusGatewayTimeout, nil)

	ErrCacheFull = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
)
