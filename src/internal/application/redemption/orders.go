package redemption

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// CancelOrder Use Case
// ===========================

// CancelOrderCommand 取消訂單
//
// MemberID 非空時只允許訂單擁有者取消；空字串代表管理端操作。
type CancelOrderCommand struct {
	OrderID  string
	MemberID string
}

// CancelOrderResult 取消結果
type CancelOrderResult struct {
	OrderID        string
	RefundedPoints int
	Balance        wallet.Balance
}

// CancelOrder pending → cancelled，歸還積分與每一行的庫存
//
// 錯誤處理：
// - ErrOrderNotFound: 訂單不存在或不屬於 MemberID
// - shared.ErrInvalidState: 訂單已出貨或已取消
func (e *Engine) CancelOrder(cmd CancelOrderCommand) (*CancelOrderResult, error) {
	orderID, err := goods.OrderIDFromString(cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order ID: %w", err)
	}

	// 明細不可變，先在鎖外讀取以決定要鎖的商品
	snapshot, err := e.findOwnedOrder(orderID, cmd.MemberID)
	if err != nil {
		return nil, err
	}

	var order *goods.Order
	bal, err := e.store.WithLockedWallet(snapshot.MemberID(), func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		current, err := e.orders.FindByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to find order: %w", err)
		}
		from := current.Status()
		if err := current.Cancel(e.clock.Now()); err != nil {
			return err
		}
		if err := e.orders.UpdateStatus(ctx, current, from); err != nil {
			return err
		}

		found, err := e.goods.FindByIDsForUpdate(ctx, current.GoodIDs())
		if err != nil {
			return fmt.Errorf("failed to load goods: %w", err)
		}
		for _, l := range current.Lines() {
			g, ok := found[l.GoodID.String()]
			if !ok {
				// 商品已下架，無庫存可歸還
				continue
			}
			if err := g.RestoreStock(l.Quantity); err != nil {
				return err
			}
			if err := e.goods.UpdateStock(ctx, g); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		w.CreditPoints(current.TotalPointCost(), wallet.PointsSourceOrderRefund, current.OrderID().String())
		order = current
		return nil
	}, goodLockKeys(snapshot.GoodIDs())...)
	if err != nil {
		return nil, err
	}

	e.store.Publish(order.PullEvents())
	return &CancelOrderResult{
		OrderID:        order.OrderID().String(),
		RefundedPoints: order.TotalPointCost().Value(),
		Balance:        bal,
	}, nil
}

// ===========================
// ShipOrder Use Case
// ===========================

// ShipOrder pending → shipped，不可逆，不影響餘額
func (e *Engine) ShipOrder(orderID string) (*OrderView, error) {
	id, err := goods.OrderIDFromString(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order ID: %w", err)
	}

	var order *goods.Order
	err = e.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		current, err := e.orders.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find order: %w", err)
		}
		from := current.Status()
		if err := current.Ship(e.clock.Now()); err != nil {
			return err
		}
		if err := e.orders.UpdateStatus(ctx, current, from); err != nil {
			return err
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.store.Publish(order.PullEvents())
	view := toOrderView(order)
	return &view, nil
}

// ===========================
// 查詢
// ===========================

// OrderLineView 訂單明細
type OrderLineView struct {
	GoodID        string
	GoodName      string
	Quantity      int
	UnitPointCost int
	Subtotal      int
}

// OrderView 訂單
type OrderView struct {
	OrderID        string
	MemberID       string
	Status         string
	TotalPointCost int
	Lines          []OrderLineView
	Shipping       goods.ShippingAddress
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderHistory 會員的訂單，新到舊
func (e *Engine) OrderHistory(memberID string) ([]OrderView, error) {
	id, err := parseMemberID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	orders, err := e.orders.ListByMemberID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views, nil
}

// OrderDetail 訂單明細；不屬於 memberID 時返回 ErrOrderNotFound
func (e *Engine) OrderDetail(memberID, orderID string) (*OrderView, error) {
	id, err := goods.OrderIDFromString(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order ID: %w", err)
	}
	order, err := e.findOwnedOrder(id, memberID)
	if err != nil {
		return nil, err
	}
	view := toOrderView(order)
	return &view, nil
}

func (e *Engine) findOwnedOrder(orderID goods.OrderID, memberID string) (*goods.Order, error) {
	order, err := e.orders.FindByID(nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if memberID == "" {
		return order, nil
	}
	owner, err := parseMemberID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	if !order.IsOwnedBy(owner) {
		return nil, goods.ErrOrderNotFound.WithContext("order_id", orderID.String())
	}
	return order, nil
}

func toOrderView(o *goods.Order) OrderView {
	lines := make([]OrderLineView, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineView{
			GoodID:        l.GoodID.String(),
			GoodName:      l.GoodName,
			Quantity:      l.Quantity,
			UnitPointCost: l.UnitPointCost,
			Subtotal:      l.Subtotal(),
		})
	}
	return OrderView{
		OrderID:        o.OrderID().String(),
		MemberID:       o.MemberID().String(),
		Status:         string(o.Status()),
		TotalPointCost: o.TotalPointCost().Value(),
		Lines:          lines,
		Shipping:       o.Shipping(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}
