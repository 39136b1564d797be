package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ===========================
// DomainError 結構
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

// 跨 bounded context 共用的錯誤代碼
const (
	ErrCodeInvalidState ErrorCode = "STATE_INVALID"
	ErrCodeStorage      ErrorCode = "STORAGE_ERROR"
)

// DomainError 領域錯誤
//
// Code 用於 errors.Is 判斷與呈現層的訊息對應；
// Context 僅供日誌與除錯，不參與比較。
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %s)", e.Code, e.Message, formatContext(e.Context))
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 以錯誤代碼判斷是否相同
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// formatContext 依 key 排序輸出，讓錯誤訊息穩定
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// ===========================
// 共用錯誤
// ===========================

var (
	// ErrInvalidState 非法的狀態轉換（如取消已出貨的訂單）
	ErrInvalidState = &DomainError{
		Code:    ErrCodeInvalidState,
		Message: "不允許的狀態轉換",
	}

	// ErrStorage 持久化失敗（交易已回滾）
	ErrStorage = &DomainError{
		Code:    ErrCodeStorage,
		Message: "資料儲存失敗",
	}
)

// IsRetryable 只有儲存層錯誤值得由呼叫者退避重試，
// 餘額不足、狀態錯誤等領域錯誤重試也不會改變結果。
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage)
}

// CodeOf 取出錯誤代碼，非 DomainError 時返回空字串
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
