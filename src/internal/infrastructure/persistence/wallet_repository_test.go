package persistence

import (
	"testing"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Test 1: 同一會員不能有兩個錢包
func TestWalletRepository_Save_DuplicateMember(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewWalletRepository(db)
	memberID := wallet.NewMemberID()

	first, _ := wallet.NewWallet(memberID)
	second, _ := wallet.NewWallet(memberID)

	require.NoError(t, repo.Save(nil, first))
	err := repo.Save(nil, second)

	assert.ErrorIs(t, err, wallet.ErrWalletAlreadyExists)
}

// Test 2: Update 寫回餘額並推進版本
func TestWalletRepository_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewWalletRepository(db)
	w := createTestWallet(t, db, 100, 0)

	require.NoError(t, w.Cheer(wallet.MustCoinAmount(100), wallet.MustPointsAmount(1), "panda-01"))
	require.NoError(t, repo.Update(nil, w))

	found, err := repo.FindByMemberID(nil, w.MemberID())
	require.NoError(t, err)
	assert.Equal(t, 0, found.CoinBalance().Value())
	assert.Equal(t, 1, found.PointBalance().Value())
	assert.Equal(t, 1, found.Version())
	assert.Equal(t, 1, w.Version())
}

// Test 3: 過期版本的寫入被拒絕
func TestWalletRepository_Update_StaleVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewWalletRepository(db)
	w := createTestWallet(t, db, 500, 0)

	a, err := repo.FindByMemberID(nil, w.MemberID())
	require.NoError(t, err)
	b, err := repo.FindByMemberID(nil, w.MemberID())
	require.NoError(t, err)

	require.NoError(t, a.Cheer(wallet.MustCoinAmount(100), wallet.MustPointsAmount(1), "x"))
	require.NoError(t, repo.Update(nil, a))

	require.NoError(t, b.Cheer(wallet.MustCoinAmount(100), wallet.MustPointsAmount(1), "x"))
	err = repo.Update(nil, b)

	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.True(t, shared.IsRetryable(err))
	found, _ := repo.FindByMemberID(nil, w.MemberID())
	assert.Equal(t, 400, found.CoinBalance().Value())
}

// Test 4: 付款編號重複
func TestPurchaseRecordRepository_DuplicatePaymentRef(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewPurchaseRecordRepository(db)
	memberID := wallet.NewMemberID()
	plan := wallet.CoinPlan{Coins: wallet.MustCoinAmount(3600), Price: decimal.NewFromInt(3000)}

	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(memberID, plan, "pay-1", time.Now())))
	err := repo.Append(nil, wallet.NewPurchaseRecord(memberID, plan, "pay-1", time.Now()))
	assert.ErrorIs(t, err, wallet.ErrDuplicatePayment)

	// 沒有付款編號的紀錄可以有多筆
	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(memberID, plan, "", time.Now())))
	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(memberID, plan, "", time.Now())))

	found, err := repo.FindByPaymentRef(nil, "pay-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 3600, found.CoinsGranted().Value())
	assert.True(t, found.PricePaid().Equal(decimal.NewFromInt(3000)))
}

// Test 5: 購幣紀錄新到舊
func TestPurchaseRecordRepository_ListByMemberID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewPurchaseRecordRepository(db)
	memberID := wallet.NewMemberID()
	plans := wallet.DefaultCoinPlans()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(memberID, plans[0], "", base)))
	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(memberID, plans[3], "", base.Add(time.Hour))))
	require.NoError(t, repo.Append(nil, wallet.NewPurchaseRecord(wallet.NewMemberID(), plans[1], "", base)))

	records, err := repo.ListByMemberID(nil, memberID)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 7000, records[0].CoinsGranted().Value())
	assert.Equal(t, 100, records[1].CoinsGranted().Value())
}

// Test 6: CreateIfAbsent 已有錢包時不寫入也不報錯，保留先建立的那一筆
func TestWalletRepository_CreateIfAbsent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewWalletRepository(db)
	memberID := wallet.NewMemberID()

	first, _ := wallet.NewWallet(memberID)
	second, _ := wallet.NewWallet(memberID)

	created, err := repo.CreateIfAbsent(nil, first)
	require.NoError(t, err)
	assert.True(t, created)

	err = db.Transaction(func(tx *gorm.DB) error {
		created, err = repo.CreateIfAbsent(NewGORMTransactionContext(tx), second)
		if err != nil {
			return err
		}
		// 衝突後同一事務仍可繼續讀取
		_, err = repo.FindByMemberIDForUpdate(NewGORMTransactionContext(tx), memberID)
		return err
	})
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByMemberID(nil, memberID)
	require.NoError(t, err)
	assert.Equal(t, first.WalletID(), found.WalletID())
	var count int64
	require.NoError(t, db.Model(&WalletModel{}).Where("member_id = ?", memberID.String()).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
