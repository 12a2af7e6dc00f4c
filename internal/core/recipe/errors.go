package recipe

import (
	"errors"
	"fmt"
)

// ErrorKind 食譜匯入失敗的分類
type ErrorKind string

const (
	ConfigurationError     ErrorKind = "ConfigurationError"
	UpstreamModelError     ErrorKind = "UpstreamModelError"
	MalformedResponseError ErrorKind = "MalformedResponseError"
	AssemblyError          ErrorKind = "AssemblyError"
	PersistenceError       ErrorKind = "PersistenceError"
)

// ErrRecipeNotFound 儲存層找不到指定 id
var ErrRecipeNotFound = errors.New("recipe not found")

// ErrMissingCredential 未設定生成模型憑證
var ErrMissingCredential = errors.New("generative model credential is not configured")

// IngestionError 匯入管線的錯誤
// Raw 只在 MalformedResponseError 時帶有模型原始回應，Field 只在 AssemblyError 時帶有欄位名稱。
type IngestionError struct {
	Kind  ErrorKind
	Field string
	Raw   string
	Err   error
}

func (e *IngestionError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// IsKind 判斷錯誤鏈中是否有指定種類的 IngestionError
func IsKind(err error, kind ErrorKind) bool {
	var ie *IngestionError
	if errors.As(err, &ie) {
		return ie.Kind == kind
	}
	return false
}

// KindOf 取得錯誤種類，非 IngestionError 時回傳空字串
func KindOf(err error) ErrorKind {
	var ie *IngestionError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func configurationError(err error) *IngestionError {
	return &IngestionError{Kind: ConfigurationError, Err: err}
}

func upstreamError(err error) *IngestionError {
	return &IngestionError{Kind: UpstreamModelError, Err: err}
}

func malformedError(raw string, err error) *IngestionError {
	return &IngestionError{Kind: MalformedResponseError, Raw: raw, Err: err}
}

func assemblyError(field string, err error) *IngestionError {
	return &IngestionError{Kind: AssemblyError, Field: field, Err: err}
}

func persistenceError(err error) *IngestionError {
	return &IngestionError{Kind: PersistenceError, Err: err}
}
