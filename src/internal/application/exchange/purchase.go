package exchange

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
)

// ===========================
// PurchaseCoins Use Case
// ===========================

// PurchaseCoinsCommand 已授權的購幣確認
//
// 輸入：
// - MemberID: 會員 ID（UUID 字串）
// - Coins / Price: 方案表中的一組 {coins, price}
// - PaymentRef: 外部付款確認編號（可為空；非空時同一編號只入帳一次）
type PurchaseCoinsCommand struct {
	MemberID   string
	Coins      int
	Price      decimal.Decimal
	PaymentRef string
}

// PurchaseCoinsResult 購幣結果
type PurchaseCoinsResult struct {
	PurchaseID string
	Balance    wallet.Balance
	// Duplicate 為 true 表示 PaymentRef 已處理過，本次沒有入帳
	Duplicate bool
}

// PurchaseCoins 入帳應援幣並新增購幣紀錄
//
// 錯誤處理：
// - ErrInvalidMemberID: MemberID 格式無效
// - ErrInvalidPlan: {coins, price} 不在方案表中
// - ErrDuplicatePayment: PaymentRef 已屬於其他會員
func (e *Engine) PurchaseCoins(cmd PurchaseCoinsCommand) (*PurchaseCoinsResult, error) {
	memberID, err := wallet.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	plan, err := e.plans.Find(cmd.Coins, cmd.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve coin plan: %w", err)
	}

	result := &PurchaseCoinsResult{}
	balance, err := e.store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		if cmd.PaymentRef != "" {
			existing, err := e.purchases.FindByPaymentRef(ctx, cmd.PaymentRef)
			if err != nil {
				return fmt.Errorf("failed to check payment ref: %w", err)
			}
			if existing != nil {
				if !existing.MemberID().Equals(memberID) {
					return wallet.ErrDuplicatePayment.WithContext(
						"payment_ref", cmd.PaymentRef,
						"member_id", memberID.String(),
					)
				}
				result.PurchaseID = existing.PurchaseID().String()
				result.Duplicate = true
				return nil
			}
		}

		w.PurchaseCoins(plan, cmd.PaymentRef)
		record := wallet.NewPurchaseRecord(memberID, plan, cmd.PaymentRef, e.clock.Now())
		if err := e.purchases.Append(ctx, record); err != nil {
			return fmt.Errorf("failed to append purchase record: %w", err)
		}
		result.PurchaseID = record.PurchaseID().String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Balance = balance
	return result, nil
}

// ===========================
// 查詢
// ===========================

// PurchaseView 購幣紀錄
type PurchaseView struct {
	PurchaseID   string
	CoinsGranted int
	PricePaid    decimal.Decimal
	PaymentRef   string
	PurchasedAt  time.Time
}

// PurchaseHistory 購幣紀錄，新到舊
func (e *Engine) PurchaseHistory(memberID string) ([]PurchaseView, error) {
	id, err := wallet.MemberIDFromString(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	records, err := e.purchases.ListByMemberID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	views := make([]PurchaseView, 0, len(records))
	for _, r := range records {
		views = append(views, PurchaseView{
			PurchaseID:   r.PurchaseID().String(),
			CoinsGranted: r.CoinsGranted().Value(),
			PricePaid:    r.PricePaid(),
			PaymentRef:   r.PaymentRef(),
			PurchasedAt:  r.PurchasedAt(),
		})
	}
	return views, nil
}

// CoinPlans 可購買的方案（依價格升冪）
func (e *Engine) CoinPlans() []wallet.CoinPlan {
	return e.plans.Plans()
}
