package balance

import (
	"errors"
	"sort"
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// BalanceStore 測試
// ===========================

// Test 1: 錢包不存在時先建立再執行 fn
func TestWithLockedWallet_CreatesMissingWallet(t *testing.T) {
	// Arrange
	repo := NewMockWalletRepository()
	txManager := NewMockTransactionManager()
	publisher := &recordingPublisher{}
	store := NewStore(repo, txManager, publisher)
	memberID := wallet.NewMemberID()

	// Act
	balance, err := store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		w.PurchaseCoins(wallet.CoinPlan{Coins: wallet.MustCoinAmount(100)}, "")
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, balance.CoinBalance)
	assert.Equal(t, memberID.String(), balance.MemberID)
	assert.Equal(t, 1, repo.CreateCallCount)
	assert.Equal(t, 1, repo.UpdateCallCount)
	assert.Equal(t, []string{wallet.LockKey(memberID)}, txManager.LastKeys)

	types := publisher.types()
	assert.Equal(t, []string{wallet.EventTypeWalletOpened, wallet.EventTypeCoinsPurchased}, types)
}

// Test 2: fn 返回錯誤時不寫回、不發布事件
func TestWithLockedWallet_FnErrorRollsBack(t *testing.T) {
	// Arrange
	repo := NewMockWalletRepository()
	publisher := &recordingPublisher{}
	store := NewStore(repo, NewMockTransactionManager(), publisher)
	memberID := wallet.NewMemberID()
	boom := errors.New("boom")

	// Act
	_, err := store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, repo.UpdateCallCount)
	assert.Empty(t, publisher.events)
}

// Test 3: 額外鎖鍵與 member 鍵一起交給 TransactionManager
func TestWithLockedWallet_PassesExtraKeys(t *testing.T) {
	// Arrange
	txManager := NewMockTransactionManager()
	store := NewStore(NewMockWalletRepository(), txManager, nil)
	memberID := wallet.NewMemberID()

	// Act
	_, err := store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		return nil
	}, "good:b", "good:a")

	// Assert
	require.NoError(t, err)
	keys := append([]string(nil), txManager.LastKeys...)
	sort.Strings(keys)
	assert.Equal(t, []string{"good:a", "good:b", wallet.LockKey(memberID)}, keys)
}

// Test 4: 寫回失敗包裝為可重試的 ErrStorage
func TestWithLockedWallet_UpdateFailure_IsRetryable(t *testing.T) {
	// Arrange
	repo := NewMockWalletRepository()
	repo.UpdateError = shared.ErrStorage.WithContext("reason", "version conflict")
	store := NewStore(repo, NewMockTransactionManager(), nil)

	// Act
	_, err := store.WithLockedWallet(wallet.NewMemberID(), func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		return nil
	})

	// Assert
	assert.ErrorIs(t, err, shared.ErrStorage)
	assert.True(t, shared.IsRetryable(err))
}

// Test 5: 空 MemberID 不開交易
func TestWithLockedWallet_EmptyMemberID(t *testing.T) {
	txManager := NewMockTransactionManager()
	store := NewStore(NewMockWalletRepository(), txManager, nil)

	_, err := store.WithLockedWallet(wallet.MemberID{}, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		return nil
	})

	assert.ErrorIs(t, err, wallet.ErrInvalidMemberID)
	assert.Equal(t, 0, txManager.InTransactionCallCount)
}

// Test 6: Open 冪等；Balance 對未開立的會員返回 0
func TestStore_OpenAndBalance(t *testing.T) {
	// Arrange
	repo := NewMockWalletRepository()
	store := NewStore(repo, NewMockTransactionManager(), nil)
	memberID := wallet.NewMemberID()

	before, err := store.Balance(memberID)
	require.NoError(t, err)
	assert.Equal(t, 0, before.CoinBalance)
	assert.Equal(t, 0, repo.CreateCallCount)

	// Act
	_, err = store.Open(memberID)
	require.NoError(t, err)
	_, err = store.Open(memberID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, repo.CreateCallCount)
	assert.Len(t, repo.wallets, 1)
}

// Test 7: 建立時錢包已被其他程序寫入：改用已存在的錢包，不報錯
func TestWithLockedWallet_LostCreateRace_UsesExistingWallet(t *testing.T) {
	// Arrange
	repo := NewMockWalletRepository()
	publisher := &recordingPublisher{}
	store := NewStore(repo, NewMockTransactionManager(), publisher)
	memberID := wallet.NewMemberID()
	existing, err := wallet.NewWallet(memberID)
	require.NoError(t, err)
	existing.CreditPoints(wallet.MustPointsAmount(40), wallet.PointsSourceSubscriptionJoin, "other-process")
	existing.PullEvents()
	repo.CommittedElsewhere = existing

	// Act
	balance, err := store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		w.CreditPoints(wallet.MustPointsAmount(15), wallet.PointsSourceSubscriptionJoin, "sub-1")
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 55, balance.PointBalance)
	assert.Equal(t, 1, repo.CreateCallCount)
	assert.Equal(t, existing.WalletID().String(), repo.wallets[memberID.String()].WalletID().String())
	assert.Equal(t, []string{wallet.EventTypePointsCredited}, publisher.types())
}

// ===========================
// Mock Repository
// ===========================

type MockWalletRepository struct {
	wallets         map[string]*wallet.Wallet
	SaveCallCount   int
	CreateCallCount int
	UpdateCallCount int
	UpdateError     error

	// CommittedElsewhere 模擬另一個程序在 CreateIfAbsent 之前剛提交的錢包
	CommittedElsewhere *wallet.Wallet
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{wallets: make(map[string]*wallet.Wallet)}
}

func (m *MockWalletRepository) Save(ctx shared.TransactionContext, w *wallet.Wallet) error {
	m.SaveCallCount++
	if _, exists := m.wallets[w.MemberID().String()]; exists {
		return wallet.ErrWalletAlreadyExists
	}
	m.wallets[w.MemberID().String()] = w
	return nil
}

func (m *MockWalletRepository) CreateIfAbsent(ctx shared.TransactionContext, w *wallet.Wallet) (bool, error) {
	m.CreateCallCount++
	if m.CommittedElsewhere != nil {
		m.wallets[m.CommittedElsewhere.MemberID().String()] = m.CommittedElsewhere
		m.CommittedElsewhere = nil
	}
	if _, exists := m.wallets[w.MemberID().String()]; exists {
		return false, nil
	}
	m.wallets[w.MemberID().String()] = w
	return true, nil
}

func (m *MockWalletRepository) FindByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) (*wallet.Wallet, error) {
	if w, exists := m.wallets[memberID.String()]; exists {
		return w, nil
	}
	return nil, wallet.ErrWalletNotFound
}

func (m *MockWalletRepository) FindByMemberIDForUpdate(ctx shared.TransactionContext, memberID wallet.MemberID) (*wallet.Wallet, error) {
	return m.FindByMemberID(ctx, memberID)
}

func (m *MockWalletRepository) Update(ctx shared.TransactionContext, w *wallet.Wallet) error {
	m.UpdateCallCount++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.wallets[w.MemberID().String()] = w
	w.MarkPersisted()
	return nil
}

// ===========================
// Mock TransactionManager
// ===========================

type MockTransactionManager struct {
	InTransactionCallCount int
	LastKeys               []string
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	return fn(nil)
}

func (m *MockTransactionManager) InLockedTransaction(keys []string, fn func(ctx shared.TransactionContext) error) error {
	m.LastKeys = keys
	return m.InTransaction(fn)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(event shared.DomainEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishBatch(events []shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
