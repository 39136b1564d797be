package persistence

import (
	"errors"
	"sync"
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 驗證 TransactionManager 的核心保證：
// 1. 錯誤時回滾，成功時提交
// 2. panic 時回滾並重新拋出
// 3. 同一事務內多個操作的原子性
// 4. InLockedTransaction 讓同一鍵上的讀改寫線性化

// Test 1: fn 返回錯誤時不提交
func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := NewWalletRepository(db)
	memberID := wallet.NewMemberID()

	// Act
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		w, _ := wallet.NewWallet(memberID)
		require.NoError(t, repo.Save(ctx, w))
		return errors.New("simulated error - trigger rollback")
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())
	_, err = repo.FindByMemberID(nil, memberID)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

// Test 2: 成功時提交
func TestCommitOnSuccess_SavesData(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := NewWalletRepository(db)
	memberID := wallet.NewMemberID()
	var walletID wallet.WalletID

	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		w, _ := wallet.NewWallet(memberID)
		walletID = w.WalletID()
		return repo.Save(ctx, w)
	})

	require.NoError(t, err)
	found, err := repo.FindByMemberID(nil, memberID)
	require.NoError(t, err)
	assert.Equal(t, walletID.String(), found.WalletID().String())
}

// Test 3: panic 時回滾並重新拋出
func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := NewWalletRepository(db)
	memberID := wallet.NewMemberID()

	assert.Panics(t, func() {
		_ = txManager.InTransaction(func(ctx shared.TransactionContext) error {
			w, _ := wallet.NewWallet(memberID)
			require.NoError(t, repo.Save(ctx, w))
			panic("simulated panic - should rollback")
		})
	})

	_, err := repo.FindByMemberID(nil, memberID)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

// Test 4: 錢包與購幣紀錄在同一事務中一起回滾
func TestMultipleOperations_AtomicRollback(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	walletRepo := NewWalletRepository(db)
	purchaseRepo := NewPurchaseRecordRepository(db)
	memberID := wallet.NewMemberID()
	plan := wallet.DefaultCoinPlans()[0]

	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		w, _ := wallet.NewWallet(memberID)
		if err := walletRepo.Save(ctx, w); err != nil {
			return err
		}
		if err := purchaseRepo.Append(ctx, wallet.NewPurchaseRecord(memberID, plan, "pay-1", w.CreatedAt())); err != nil {
			return err
		}
		return errors.New("second operation failed")
	})

	require.Error(t, err)
	_, err = walletRepo.FindByMemberID(nil, memberID)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	rec, err := purchaseRepo.FindByPaymentRef(nil, "pay-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// Test 5: 同一把鍵下的並發讀改寫不會遺失更新
func TestInLockedTransaction_SerializesSameKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	repo := NewWalletRepository(db)
	w := createTestWallet(t, db, 0, 0)
	key := wallet.LockKey(w.MemberID())

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- txManager.InLockedTransaction([]string{key}, func(ctx shared.TransactionContext) error {
				locked, err := repo.FindByMemberIDForUpdate(ctx, w.MemberID())
				if err != nil {
					return err
				}
				locked.CreditPoints(wallet.MustPointsAmount(1), wallet.PointsSourceCheer, "")
				return repo.Update(ctx, locked)
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	final, err := repo.FindByMemberID(nil, w.MemberID())
	require.NoError(t, err)
	assert.Equal(t, workers, final.PointBalance().Value())
	assert.Equal(t, workers, final.Version())
}

// Test 6: nil context 的 auto-commit 唯讀查詢
func TestRepository_NilContext_AutoCommitMode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	w := createTestWallet(t, db, 300, 2)

	found, err := NewWalletRepository(db).FindByMemberID(nil, w.MemberID())

	require.NoError(t, err)
	assert.Equal(t, 300, found.CoinBalance().Value())
	assert.Equal(t, 2, found.PointBalance().Value())
}
