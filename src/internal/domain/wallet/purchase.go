package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRecord 購幣紀錄（只新增，不修改）
//
// 僅供顯示與稽核；餘額以 Wallet 為準，不從紀錄推算。
type PurchaseRecord struct {
	purchaseID   PurchaseID
	memberID     MemberID
	coinsGranted CoinAmount
	pricePaid    decimal.Decimal
	paymentRef   string
	purchasedAt  time.Time
}

// NewPurchaseRecord 建立購幣紀錄
func NewPurchaseRecord(memberID MemberID, plan CoinPlan, paymentRef string, at time.Time) *PurchaseRecord {
	return &PurchaseRecord{
		purchaseID:   NewPurchaseID(),
		memberID:     memberID,
		coinsGranted: plan.Coins,
		pricePaid:    plan.Price,
		paymentRef:   paymentRef,
		purchasedAt:  at,
	}
}

// ReconstructPurchaseRecord 從持久化資料重建
func ReconstructPurchaseRecord(
	purchaseID PurchaseID,
	memberID MemberID,
	coinsGranted int,
	pricePaid decimal.Decimal,
	paymentRef string,
	purchasedAt time.Time,
) (*PurchaseRecord, error) {
	coins, err := NewCoinAmount(coinsGranted)
	if err != nil {
		return nil, ErrCorruptedWallet.WithContext("purchase_id", purchaseID.String(), "coins", coinsGranted)
	}
	return &PurchaseRecord{
		purchaseID:   purchaseID,
		memberID:     memberID,
		coinsGranted: coins,
		pricePaid:    pricePaid,
		paymentRef:   paymentRef,
		purchasedAt:  purchasedAt,
	}, nil
}

// PurchaseID 紀錄 ID
func (p *PurchaseRecord) PurchaseID() PurchaseID { return p.purchaseID }

// MemberID 會員 ID
func (p *PurchaseRecord) MemberID() MemberID { return p.memberID }

// CoinsGranted 入帳應援幣
func (p *PurchaseRecord) CoinsGranted() CoinAmount { return p.coinsGranted }

// PricePaid 支付金額（日圓）
func (p *PurchaseRecord) PricePaid() decimal.Decimal { return p.pricePaid }

// PaymentRef 外部付款確認編號（可為空）
func (p *PurchaseRecord) PaymentRef() string { return p.paymentRef }

// PurchasedAt 購買時間
func (p *PurchaseRecord) PurchasedAt() time.Time { return p.purchasedAt }
