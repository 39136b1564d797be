package persistence

import (
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// 測試輔助函數
// ===========================

// setupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// 每個測試使用獨立的 in-memory DB。Open 將連線數限制為 1：
// :memory: 的每條連線都是不同的資料庫。
func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanup := func() {
		_ = Close(db)
	}
	return db, cleanup
}

// NewTestDB 給其他套件的測試使用，測試結束時自動關閉
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// createTestWallet 在資料庫中建立有餘額的錢包
func createTestWallet(t *testing.T, db *gorm.DB, coins, points int) *wallet.Wallet {
	t.Helper()
	repo := NewWalletRepository(db)
	tx := NewGORMTransactionManager(db)

	w, err := wallet.NewWallet(wallet.NewMemberID())
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	if err := tx.InTransaction(func(ctx shared.TransactionContext) error {
		return repo.Save(ctx, w)
	}); err != nil {
		t.Fatalf("save wallet: %v", err)
	}
	if coins == 0 && points == 0 {
		return w
	}

	result := db.Model(&WalletModel{}).Where("id = ?", w.WalletID().String()).
		Updates(map[string]interface{}{"coin_balance": coins, "point_balance": points})
	if result.Error != nil {
		t.Fatalf("seed balances: %v", result.Error)
	}
	reloaded, err := repo.FindByMemberID(nil, w.MemberID())
	if err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	return reloaded
}

// createTestGood 在資料庫中建立商品
func createTestGood(t *testing.T, db *gorm.DB, name string, cost, stock int) *goods.RedeemableGood {
	t.Helper()
	g, err := goods.NewRedeemableGood(name, cost, stock)
	if err != nil {
		t.Fatalf("NewRedeemableGood: %v", err)
	}
	if err := NewGoodRepository(db).Save(nil, g); err != nil {
		t.Fatalf("save good: %v", err)
	}
	return g
}
