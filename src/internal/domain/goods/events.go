package goods

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// 事件類型
const (
	EventTypeOrderPlaced    = "goods.order_placed"
	EventTypeOrderCancelled = "goods.order_cancelled"
	EventTypeOrderShipped   = "goods.order_shipped"
)

// OrderEvent 訂單狀態事件（三種事件共用欄位）
type OrderEvent struct {
	shared.BaseEvent
	OrderID        OrderID
	MemberID       wallet.MemberID
	TotalPointCost int
	Lines          []OrderLine
}

func newOrderEvent(eventType string, o *Order, at time.Time) *OrderEvent {
	return &OrderEvent{
		BaseEvent:      shared.NewBaseEvent(eventType, o.orderID.String(), at),
		OrderID:        o.orderID,
		MemberID:       o.memberID,
		TotalPointCost: o.totalPointCost.Value(),
		Lines:          o.Lines(),
	}
}

// NewOrderPlacedEvent 下單
func NewOrderPlacedEvent(o *Order, at time.Time) *OrderEvent {
	return newOrderEvent(EventTypeOrderPlaced, o, at)
}

// NewOrderCancelledEvent 取消
func NewOrderCancelledEvent(o *Order, at time.Time) *OrderEvent {
	return newOrderEvent(EventTypeOrderCancelled, o, at)
}

// NewOrderShippedEvent 出貨
func NewOrderShippedEvent(o *Order, at time.Time) *OrderEvent {
	return newOrderEvent(EventTypeOrderShipped, o, at)
}
