package persistence

import (
	"errors"
	"strings"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"gorm.io/gorm"
)

// mapError 映射 GORM 錯誤到 Domain 錯誤
//
// 映射規則：
// - gorm.ErrRecordNotFound      → notFound（為 nil 時視為儲存錯誤）
// - 唯一約束違反                 → duplicate（為 nil 時視為儲存錯誤）
// - 其他                         → shared.ErrStorage，保留資料庫訊息
//
// 唯一約束以錯誤訊息判斷（SQLite: "UNIQUE constraint failed"，
// PostgreSQL: "duplicate key value violates unique constraint"）。
func mapError(err error, notFound error, duplicate *shared.DomainError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if duplicate != nil && isUniqueConstraintError(err) {
		return duplicate.WithContext("database_error", err.Error())
	}
	return shared.ErrStorage.WithContext("database_error", err.Error())
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{"UNIQUE constraint", "duplicate key", "Duplicate entry"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
