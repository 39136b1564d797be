package exchange

import (
	"fmt"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// GrantPoints（錢包入帳原語）
// ===========================

// GrantPointsCommand 增加積分
//
// AlsoLock 是 Within 會修改的其他資源鍵（例如訂閱），
// 與 member 鍵在同一個鎖定交易中取得。
type GrantPointsCommand struct {
	MemberID wallet.MemberID
	Amount   int
	Source   wallet.PointsSource
	SourceID string
	AlsoLock []string
}

// WithinFunc 與入帳在同一交易中執行的寫入；返回錯誤時不入帳
type WithinFunc func(ctx shared.TransactionContext) error

// GrantPoints 先執行 within，成功後為會員加積分，兩者一起提交
func (e *Engine) GrantPoints(cmd GrantPointsCommand, within WithinFunc) (wallet.Balance, error) {
	amount, err := wallet.NewPointsAmount(cmd.Amount)
	if err != nil {
		return wallet.Balance{}, fmt.Errorf("failed to create points amount: %w", err)
	}

	return e.store.WithLockedWallet(cmd.MemberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		if within != nil {
			if err := within(ctx); err != nil {
				return err
			}
		}
		w.CreditPoints(amount, cmd.Source, cmd.SourceID)
		return nil
	}, cmd.AlsoLock...)
}

// ===========================
// 錢包查詢
// ===========================

// OpenWallet 建立空錢包（會員註冊時）；已存在時返回現有餘額
func (e *Engine) OpenWallet(memberID string) (wallet.Balance, error) {
	id, err := wallet.MemberIDFromString(memberID)
	if err != nil {
		return wallet.Balance{}, fmt.Errorf("failed to parse member ID: %w", err)
	}
	return e.store.Open(id)
}

// GetBalance 最新已提交的餘額
func (e *Engine) GetBalance(memberID string) (wallet.Balance, error) {
	id, err := wallet.MemberIDFromString(memberID)
	if err != nil {
		return wallet.Balance{}, fmt.Errorf("failed to parse member ID: %w", err)
	}
	return e.store.Balance(id)
}
