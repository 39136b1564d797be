package persistence

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/keylock"
	"gorm.io/gorm"
)

// GORMTransactionManager 以 gorm.DB.Transaction 實作 shared.TransactionManager
//
// InLockedTransaction 先取得行程內鍵鎖再開事務；
// 在 Postgres 上 Repository 另外以 FOR UPDATE 鎖列。
type GORMTransactionManager struct {
	db    *gorm.DB
	locks *keylock.Locker
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB) *GORMTransactionManager {
	return &GORMTransactionManager{db: db, locks: keylock.New()}
}

// InTransaction 實現 shared.TransactionManager
//
// fn 返回錯誤時回滾並原樣返回該錯誤；panic 時回滾後繼續 panic；
// 提交失敗時返回 shared.ErrStorage。
func (m *GORMTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	var fnErr error
	err := m.db.Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewGORMTransactionContext(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return shared.ErrStorage.WithContext("database_error", err.Error(), "stage", "commit")
	}
	return nil
}

// InLockedTransaction 實現 shared.TransactionManager
func (m *GORMTransactionManager) InLockedTransaction(keys []string, fn func(ctx shared.TransactionContext) error) error {
	unlock := m.locks.LockAll(keys...)
	defer unlock()
	return m.InTransaction(fn)
}
