package wallet

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
)

// ===========================
// Wallet 聚合根
// ===========================

// Wallet 會員錢包聚合根（每位會員一個）
//
// 不變條件：
// - coinBalance >= 0、pointBalance >= 0（由值對象保證）
// - 每次變更都是成對的扣減/增加，於同一個聚合方法內完成
// - version 為最後一次持久化時的版本號，Repository 以此做樂觀鎖
type Wallet struct {
	walletID WalletID
	memberID MemberID

	coinBalance  CoinAmount
	pointBalance PointsAmount

	createdAt time.Time
	updatedAt time.Time
	version   int

	shared.EventRecorder
}

// Balance 某一時點的餘額快照（交易提交後返回給呼叫者）
type Balance struct {
	MemberID     string
	CoinBalance  int
	PointBalance int
	UpdatedAt    time.Time
}

// PointsSource 積分變動來源
type PointsSource string

const (
	PointsSourceCheer               PointsSource = "cheer"
	PointsSourceSubscriptionJoin    PointsSource = "subscription_join"
	PointsSourceSubscriptionRenewal PointsSource = "subscription_renewal"
	PointsSourceOrderRefund         PointsSource = "order_refund"
	PointsSourceRedemption          PointsSource = "redemption"
)

// NewWallet 開立新錢包（餘額皆為 0）
func NewWallet(memberID MemberID) (*Wallet, error) {
	if memberID.IsEmpty() {
		return nil, ErrInvalidMemberID.WithContext(
			"reason", "memberID cannot be empty",
		)
	}

	now := time.Now()
	w := &Wallet{
		walletID:  NewWalletID(),
		memberID:  memberID,
		createdAt: now,
		updatedAt: now,
	}
	w.Record(NewWalletOpenedEvent(w.walletID, memberID, now))
	return w, nil
}

// ReconstructWallet 從持久化資料重建（不發布事件）
//
// 資料庫中若出現負數餘額，返回 ErrCorruptedWallet 而不是讓錯誤資料進入領域層。
func ReconstructWallet(
	walletID WalletID,
	memberID MemberID,
	coinBalance int,
	pointBalance int,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Wallet, error) {
	if walletID.IsEmpty() {
		return nil, ErrInvalidWalletID.WithContext("reason", "invalid wallet ID in database")
	}
	if memberID.IsEmpty() {
		return nil, ErrInvalidMemberID.WithContext("reason", "invalid member ID in database")
	}

	coins, err := NewCoinAmount(coinBalance)
	if err != nil {
		return nil, ErrCorruptedWallet.WithContext("coin_balance", coinBalance)
	}
	points, err := NewPointsAmount(pointBalance)
	if err != nil {
		return nil, ErrCorruptedWallet.WithContext("point_balance", pointBalance)
	}

	return &Wallet{
		walletID:     walletID,
		memberID:     memberID,
		coinBalance:  coins,
		pointBalance: points,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		version:      version,
	}, nil
}

// ===========================
// 查詢方法
// ===========================

// WalletID 獲取錢包 ID
func (w *Wallet) WalletID() WalletID { return w.walletID }

// MemberID 獲取會員 ID
func (w *Wallet) MemberID() MemberID { return w.memberID }

// CoinBalance 應援幣餘額
func (w *Wallet) CoinBalance() CoinAmount { return w.coinBalance }

// PointBalance 積分餘額
func (w *Wallet) PointBalance() PointsAmount { return w.pointBalance }

// CreatedAt 開立時間
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }

// UpdatedAt 最後更新時間
func (w *Wallet) UpdatedAt() time.Time { return w.updatedAt }

// Version 樂觀鎖版本號（最後一次持久化時的值）
func (w *Wallet) Version() int { return w.version }

// MarkPersisted 寫入成功後由 Repository 呼叫，推進版本號
func (w *Wallet) MarkPersisted() { w.version++ }

// Snapshot 目前餘額快照
func (w *Wallet) Snapshot() Balance {
	return Balance{
		MemberID:     w.memberID.String(),
		CoinBalance:  w.coinBalance.Value(),
		PointBalance: w.pointBalance.Value(),
		UpdatedAt:    w.updatedAt,
	}
}

// CanAffordPoints 積分是否足以支付 cost
func (w *Wallet) CanAffordPoints(cost PointsAmount) bool {
	return !w.pointBalance.LessThan(cost)
}

// ===========================
// 命令方法
// ===========================

// PurchaseCoins 入帳已授權的購幣方案（只增加應援幣）
func (w *Wallet) PurchaseCoins(plan CoinPlan, paymentRef string) {
	w.coinBalance = w.coinBalance.Add(plan.Coins)
	w.touch()
	w.Record(NewCoinsPurchasedEvent(w.walletID, w.memberID, plan, paymentRef, w.updatedAt))
}

// Cheer 應援：扣 cost 應援幣、加 reward 積分
//
// 應援幣不足時返回 ErrInsufficientCoins，錢包不做任何變更。
func (w *Wallet) Cheer(cost CoinAmount, reward PointsAmount, animalID string) error {
	remaining, err := w.coinBalance.Subtract(cost)
	if err != nil {
		return ErrInsufficientCoins.WithContext(
			"requested", cost.Value(),
			"available", w.coinBalance.Value(),
			"animal_id", animalID,
		)
	}

	w.coinBalance = remaining
	w.pointBalance = w.pointBalance.Add(reward)
	w.touch()
	w.Record(NewCheeredEvent(w.walletID, w.memberID, animalID, cost, reward, w.updatedAt))
	return nil
}

// CreditPoints 增加積分（訂閱發放、訂單取消退還）
func (w *Wallet) CreditPoints(amount PointsAmount, source PointsSource, sourceID string) {
	w.pointBalance = w.pointBalance.Add(amount)
	w.touch()
	w.Record(NewPointsCreditedEvent(w.walletID, w.memberID, amount, source, sourceID, w.updatedAt))
}

// DebitPoints 扣減積分（兌換商品）
//
// 積分不足時返回 ErrInsufficientPoints，錢包不做任何變更。
func (w *Wallet) DebitPoints(amount PointsAmount, source PointsSource, sourceID string) error {
	remaining, err := w.pointBalance.Subtract(amount)
	if err != nil {
		return ErrInsufficientPoints.WithContext(
			"requested", amount.Value(),
			"available", w.pointBalance.Value(),
			"source", string(source),
		)
	}

	w.pointBalance = remaining
	w.touch()
	w.Record(NewPointsDebitedEvent(w.walletID, w.memberID, amount, source, sourceID, w.updatedAt))
	return nil
}

func (w *Wallet) touch() {
	w.updatedAt = time.Now()
}

// String 方便日誌輸出
func (w *Wallet) String() string {
	return fmt.Sprintf("wallet(%s coins=%d points=%d)",
		w.memberID.String(), w.coinBalance.Value(), w.pointBalance.Value())
}
