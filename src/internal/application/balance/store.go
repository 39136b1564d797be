// Package balance 會員錢包的鎖定讀改寫
package balance

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// BalanceStore
// ===========================

// MutateFunc 在鎖定交易中修改錢包
//
// 返回錯誤時整個交易回滾，錢包與其他寫入都不保留。
type MutateFunc func(ctx shared.TransactionContext, w *wallet.Wallet) error

// Store 每位會員一個錢包的持久化存取
//
// 所有餘額變更都經過 WithLockedWallet：
// 1. 取得 member 鍵鎖（以及呼叫者額外指定的鍵）
// 2. 開啟交易，讀取錢包；不存在時建立空錢包
// 3. 執行 fn，寫回餘額（版本號樂觀鎖）
// 4. 提交後發布事件並返回快照
type Store struct {
	wallets   wallet.WalletRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
}

// NewStore 創建 Store；publisher 為 nil 時丟棄事件
func NewStore(
	wallets wallet.WalletRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
) *Store {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &Store{
		wallets:   wallets,
		txManager: txManager,
		publisher: publisher,
	}
}

// WithLockedWallet 在鎖定交易中執行 fn 並寫回錢包
//
// alsoLock 是同一交易還會修改的其他資源鍵（商品、訂閱），
// 與 member 鍵一起依字串升冪取得。
//
// 錯誤處理：
// - fn 的錯誤原樣返回（呼叫者以 errors.Is 判斷領域錯誤）
// - 寫回失敗：shared.ErrStorage，可重試
func (s *Store) WithLockedWallet(memberID wallet.MemberID, fn MutateFunc, alsoLock ...string) (wallet.Balance, error) {
	if memberID.IsEmpty() {
		return wallet.Balance{}, wallet.ErrInvalidMemberID.WithContext("reason", "memberID cannot be empty")
	}

	keys := append([]string{wallet.LockKey(memberID)}, alsoLock...)
	var locked *wallet.Wallet
	err := s.txManager.InLockedTransaction(keys, func(ctx shared.TransactionContext) error {
		w, err := s.loadOrOpen(ctx, memberID)
		if err != nil {
			return err
		}
		if err := fn(ctx, w); err != nil {
			return err
		}
		if err := s.wallets.Update(ctx, w); err != nil {
			return fmt.Errorf("failed to update wallet: %w", err)
		}
		locked = w
		return nil
	})
	if err != nil {
		return wallet.Balance{}, err
	}

	s.Publish(locked.PullEvents())
	return locked.Snapshot(), nil
}

// Open 建立空錢包；已存在時返回現有餘額
func (s *Store) Open(memberID wallet.MemberID) (wallet.Balance, error) {
	if memberID.IsEmpty() {
		return wallet.Balance{}, wallet.ErrInvalidMemberID.WithContext("reason", "memberID cannot be empty")
	}

	var opened *wallet.Wallet
	err := s.txManager.InLockedTransaction([]string{wallet.LockKey(memberID)}, func(ctx shared.TransactionContext) error {
		w, err := s.loadOrOpen(ctx, memberID)
		if err != nil {
			return err
		}
		opened = w
		return nil
	})
	if err != nil {
		return wallet.Balance{}, err
	}

	s.Publish(opened.PullEvents())
	return opened.Snapshot(), nil
}

// Balance 讀取最新已提交的餘額（不加鎖）；尚未開立錢包時返回 0
func (s *Store) Balance(memberID wallet.MemberID) (wallet.Balance, error) {
	w, err := s.wallets.FindByMemberID(nil, memberID)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return wallet.Balance{MemberID: memberID.String()}, nil
	}
	if err != nil {
		return wallet.Balance{}, fmt.Errorf("failed to find wallet: %w", err)
	}
	return w.Snapshot(), nil
}

// Publish 發布已提交的事件
//
// 發布失敗不影響已提交的結果，錯誤由發布器自行記錄。
func (s *Store) Publish(events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	_ = s.publisher.PublishBatch(events)
}

func (s *Store) loadOrOpen(ctx shared.TransactionContext, memberID wallet.MemberID) (*wallet.Wallet, error) {
	w, err := s.wallets.FindByMemberIDForUpdate(ctx, memberID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, wallet.ErrWalletNotFound) {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	w, err = wallet.NewWallet(memberID)
	if err != nil {
		return nil, err
	}
	created, err := s.wallets.CreateIfAbsent(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet: %w", err)
	}
	if created {
		return w, nil
	}

	// 另一個程序搶先建立了錢包：改讀它提交的那一筆
	w, err = s.wallets.FindByMemberIDForUpdate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return w, nil
}
