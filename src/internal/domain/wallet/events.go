package wallet

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// 事件類型
const (
	EventTypeWalletOpened   = "wallet.opened"
	EventTypeCoinsPurchased = "wallet.coins_purchased"
	EventTypeCheered        = "wallet.cheered"
	EventTypePointsCredited = "wallet.points_granted"
	EventTypePointsDebited  = "wallet.points_spent"
)

// WalletOpenedEvent 錢包開立
type WalletOpenedEvent struct {
	shared.BaseEvent
	MemberID MemberID
}

// NewWalletOpenedEvent 建立錢包開立事件
func NewWalletOpenedEvent(walletID WalletID, memberID MemberID, at time.Time) *WalletOpenedEvent {
	return &WalletOpenedEvent{
		BaseEvent: shared.NewBaseEvent(EventTypeWalletOpened, walletID.String(), at),
		MemberID:  memberID,
	}
}

// CoinsPurchasedEvent 購幣入帳
type CoinsPurchasedEvent struct {
	shared.BaseEvent
	MemberID   MemberID
	Coins      CoinAmount
	Price      decimal.Decimal
	PaymentRef string
}

// NewCoinsPurchasedEvent 建立購幣入帳事件
func NewCoinsPurchasedEvent(walletID WalletID, memberID MemberID, plan CoinPlan, paymentRef string, at time.Time) *CoinsPurchasedEvent {
	return &CoinsPurchasedEvent{
		BaseEvent:  shared.NewBaseEvent(EventTypeCoinsPurchased, walletID.String(), at),
		MemberID:   memberID,
		Coins:      plan.Coins,
		Price:      plan.Price,
		PaymentRef: paymentRef,
	}
}

// CheeredEvent 應援
type CheeredEvent struct {
	shared.BaseEvent
	MemberID     MemberID
	AnimalID     string
	CoinsSpent   CoinAmount
	PointsEarned PointsAmount
}

// NewCheeredEvent 建立應援事件
func NewCheeredEvent(walletID WalletID, memberID MemberID, animalID string, cost CoinAmount, reward PointsAmount, at time.Time) *CheeredEvent {
	return &CheeredEvent{
		BaseEvent:    shared.NewBaseEvent(EventTypeCheered, walletID.String(), at),
		MemberID:     memberID,
		AnimalID:     animalID,
		CoinsSpent:   cost,
		PointsEarned: reward,
	}
}

// PointsCreditedEvent 積分增加
type PointsCreditedEvent struct {
	shared.BaseEvent
	MemberID MemberID
	Amount   PointsAmount
	Source   PointsSource
	SourceID string
}

// NewPointsCreditedEvent 建立積分增加事件
func NewPointsCreditedEvent(walletID WalletID, memberID MemberID, amount PointsAmount, source PointsSource, sourceID string, at time.Time) *PointsCreditedEvent {
	return &PointsCreditedEvent{
		BaseEvent: shared.NewBaseEvent(EventTypePointsCredited, walletID.String(), at),
		MemberID:  memberID,
		Amount:    amount,
		Source:    source,
		SourceID:  sourceID,
	}
}

// PointsDebitedEvent 積分扣減
type PointsDebitedEvent struct {
	shared.BaseEvent
	MemberID MemberID
	Amount   PointsAmount
	Source   PointsSource
	SourceID string
}

// NewPointsDebitedEvent 建立積分扣減事件
func NewPointsDebitedEvent(walletID WalletID, memberID MemberID, amount PointsAmount, source PointsSource, sourceID string, at time.Time) *PointsDebitedEvent {
	return &PointsDebitedEvent{
		BaseEvent: shared.NewBaseEvent(EventTypePointsDebited, walletID.String(), at),
		MemberID:  memberID,
		Amount:    amount,
		Source:    source,
		SourceID:  sourceID,
	}
}
