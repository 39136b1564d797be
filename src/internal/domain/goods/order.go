package goods

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// OrderStatus 訂單狀態
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus 解析持久化的狀態字串
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrCorruptedOrder.WithContext("status", s)
}

// IsTerminal shipped 與 cancelled 不可再轉換
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// OrderLine 訂單明細（單價於下單時快照）
type OrderLine struct {
	GoodID        GoodID
	GoodName      string
	Quantity      int
	UnitPointCost int
}

// Subtotal 小計（明細已由 PlaceOrder / ReconstructOrder 驗證不會溢位）
func (l OrderLine) Subtotal() int {
	return l.UnitPointCost * l.Quantity
}

// ===========================
// Order 聚合根
// ===========================

// Order 兌換訂單
//
// 狀態機：pending → shipped（終態）或 pending → cancelled（終態，歸還積分與庫存）
type Order struct {
	orderID        OrderID
	memberID       wallet.MemberID
	lines          []OrderLine
	totalPointCost wallet.PointsAmount
	shipping       ShippingAddress
	status         OrderStatus
	createdAt      time.Time
	updatedAt      time.Time

	shared.EventRecorder
}

// PlaceOrder 建立 pending 訂單
//
// 呼叫前 Checkout 已驗證積分與庫存；這裡只檢查明細本身。
func PlaceOrder(memberID wallet.MemberID, lines []OrderLine, shipping ShippingAddress, at time.Time) (*Order, error) {
	if memberID.IsEmpty() {
		return nil, wallet.ErrInvalidMemberID.WithContext("reason", "memberID cannot be empty")
	}
	total, err := sumLines(lines)
	if err != nil {
		return nil, err
	}

	o := &Order{
		orderID:        NewOrderID(),
		memberID:       memberID,
		lines:          append([]OrderLine(nil), lines...),
		totalPointCost: total,
		shipping:       shipping.Normalize(),
		status:         OrderStatusPending,
		createdAt:      at,
		updatedAt:      at,
	}
	o.Record(NewOrderPlacedEvent(o, at))
	return o, nil
}

// ReconstructOrder 從持久化資料重建
func ReconstructOrder(
	orderID OrderID,
	memberID wallet.MemberID,
	lines []OrderLine,
	totalPointCost int,
	shipping ShippingAddress,
	status OrderStatus,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	total, err := sumLines(lines)
	if err != nil {
		return nil, ErrCorruptedOrder.WithContext("order_id", orderID.String(), "reason", err.Error())
	}
	if total.Value() != totalPointCost {
		return nil, ErrCorruptedOrder.WithContext(
			"order_id", orderID.String(),
			"stored_total", totalPointCost,
			"line_total", total.Value(),
		)
	}
	return &Order{
		orderID:        orderID,
		memberID:       memberID,
		lines:          lines,
		totalPointCost: total,
		shipping:       shipping,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func sumLines(lines []OrderLine) (wallet.PointsAmount, error) {
	if len(lines) == 0 {
		return wallet.PointsAmount{}, ErrEmptyCart
	}
	total := 0
	for _, l := range lines {
		if l.UnitPointCost <= 0 {
			return wallet.PointsAmount{}, ErrInvalidGood.WithContext("good_id", l.GoodID.String(), "point_cost", l.UnitPointCost)
		}
		subtotal, err := mulCost(l.GoodID, l.UnitPointCost, l.Quantity)
		if err != nil {
			return wallet.PointsAmount{}, err
		}
		if total, err = addCost(total, subtotal); err != nil {
			return wallet.PointsAmount{}, err
		}
	}
	return wallet.NewPointsAmount(total)
}

// OrderID 訂單 ID
func (o *Order) OrderID() OrderID { return o.orderID }

// MemberID 下單會員
func (o *Order) MemberID() wallet.MemberID { return o.memberID }

// Lines 明細副本
func (o *Order) Lines() []OrderLine {
	return append([]OrderLine(nil), o.lines...)
}

// TotalPointCost 總積分
func (o *Order) TotalPointCost() wallet.PointsAmount { return o.totalPointCost }

// Shipping 收件資料
func (o *Order) Shipping() ShippingAddress { return o.shipping }

// Status 目前狀態
func (o *Order) Status() OrderStatus { return o.status }

// CreatedAt 下單時間
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt 最後狀態變更時間
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// IsOwnedBy 是否屬於該會員
func (o *Order) IsOwnedBy(memberID wallet.MemberID) bool {
	return o.memberID.Equals(memberID)
}

// GoodIDs 明細中的商品 ID（不重複）
func (o *Order) GoodIDs() []GoodID {
	seen := make(map[string]struct{}, len(o.lines))
	ids := make([]GoodID, 0, len(o.lines))
	for _, l := range o.lines {
		if _, ok := seen[l.GoodID.String()]; ok {
			continue
		}
		seen[l.GoodID.String()] = struct{}{}
		ids = append(ids, l.GoodID)
	}
	return ids
}

// Cancel pending → cancelled
//
// 只改變狀態；歸還積分與庫存由 RedemptionEngine 在同一事務中完成。
func (o *Order) Cancel(at time.Time) error {
	if err := o.transition(OrderStatusCancelled, at); err != nil {
		return err
	}
	o.Record(NewOrderCancelledEvent(o, at))
	return nil
}

// Ship pending → shipped，不影響餘額
func (o *Order) Ship(at time.Time) error {
	if err := o.transition(OrderStatusShipped, at); err != nil {
		return err
	}
	o.Record(NewOrderShippedEvent(o, at))
	return nil
}

func (o *Order) transition(to OrderStatus, at time.Time) error {
	if o.status != OrderStatusPending {
		return shared.ErrInvalidState.WithContext(
			"order_id", o.orderID.String(),
			"from", string(o.status),
			"to", string(to),
		)
	}
	o.status = to
	o.updatedAt = at
	return nil
}

// String 方便日誌輸出
func (o *Order) String() string {
	return fmt.Sprintf("order(%s %s total=%d)", o.orderID.String(), o.status, o.totalPointCost.Value())
}
