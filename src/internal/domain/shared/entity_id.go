package shared

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 泛型參數 T 為標記類型（marker type），只用於編譯期區分：
//   type WalletMarker struct{}
//   type WalletID = shared.EntityID[WalletMarker]
//
// WalletID 與 MemberID 底層都是 UUID，但不能互相賦值或比較。
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// errTemplate 由各 bounded context 提供（如 wallet.ErrInvalidMemberID），
// 若支援 WithContext 則附帶輸入值與解析錯誤。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		reason := "nil uuid"
		if err != nil {
			reason = err.Error()
		}
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", reason,
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String 小寫 UUID 字串
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個同類型 ID
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 是否為零值
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}

// Compare 依字串順序比較，用於決定鎖的取得順序
//
// 返回 -1 / 0 / 1
func (e EntityID[T]) Compare(other EntityID[T]) int {
	return strings.Compare(e.String(), other.String())
}
