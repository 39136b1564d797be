package redemption

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// 讀取購物車到取得鎖之間購物車被修改時的重試次數
const maxCartRetries = 3

// errCartChanged 鎖內讀到的購物車商品與取得的鎖不符
var errCartChanged = errors.New("cart changed while acquiring locks")

// ===========================
// Checkout Use Case
// ===========================

// LineInput 一行結帳明細
type LineInput struct {
	GoodID   string
	Quantity int
}

// CheckoutCommand 結帳
//
// Lines 為空時結帳已保存的購物車，成功後清空購物車。
type CheckoutCommand struct {
	MemberID string
	Lines    []LineInput
	Shipping goods.ShippingAddress
}

// CheckoutResult 結帳結果
type CheckoutResult struct {
	OrderID        string
	TotalPointCost int
	Balance        wallet.Balance
}

// Checkout 扣積分、扣庫存、建立 pending 訂單，全部或全不
//
// 驗證順序：
// 1. 積分 >= 合計，否則 ErrInsufficientPoints
// 2. 每一行庫存 >= 數量，否則 ErrInsufficientStock（context 帶商品）
//
// 任一驗證失敗時積分、庫存、購物車都不變。
func (e *Engine) Checkout(cmd CheckoutCommand) (*CheckoutResult, error) {
	memberID, err := parseMemberID(cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	if err := cmd.Shipping.Validate(); err != nil {
		return nil, err
	}

	if len(cmd.Lines) > 0 {
		lines, err := parseLines(cmd.Lines)
		if err != nil {
			return nil, err
		}
		return e.checkout(memberID, lines, false, cmd.Shipping)
	}

	for attempt := 0; ; attempt++ {
		cart, err := e.carts.FindByMemberID(nil, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to find cart: %w", err)
		}
		result, err := e.checkout(memberID, cart.Lines(), true, cmd.Shipping)
		if errors.Is(err, errCartChanged) && attempt+1 < maxCartRetries {
			continue
		}
		if errors.Is(err, errCartChanged) {
			return nil, shared.ErrStorage.WithContext("member_id", memberID.String(), "reason", err.Error())
		}
		return result, err
	}
}

func (e *Engine) checkout(
	memberID wallet.MemberID,
	lines []goods.CartLine,
	fromCart bool,
	shipping goods.ShippingAddress,
) (*CheckoutResult, error) {
	merged, err := goods.MergeLines(lines)
	if err != nil {
		return nil, err
	}
	ids := lineGoodIDs(merged)

	var order *goods.Order
	bal, err := e.store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		var cart *goods.Cart
		if fromCart {
			loaded, err := e.carts.FindByMemberID(ctx, memberID)
			if err != nil {
				return fmt.Errorf("failed to find cart: %w", err)
			}
			current, err := goods.MergeLines(loaded.Lines())
			if err != nil {
				return err
			}
			if !sameGoods(current, merged) {
				return errCartChanged
			}
			merged = current
			cart = loaded
		}

		found, err := e.goods.FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load goods: %w", err)
		}
		plan, err := goods.PrepareCheckout(w.PointBalance(), merged, found)
		if err != nil {
			return err
		}

		placed, err := goods.PlaceOrder(memberID, plan.Lines, shipping, e.clock.Now())
		if err != nil {
			return err
		}
		if err := w.DebitPoints(plan.Total, wallet.PointsSourceRedemption, placed.OrderID().String()); err != nil {
			return err
		}
		for _, l := range merged {
			g := found[l.GoodID.String()]
			if err := g.DecreaseStock(l.Quantity); err != nil {
				return err
			}
			if err := e.goods.UpdateStock(ctx, g); err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}
		if err := e.orders.Save(ctx, placed); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if cart != nil {
			cart.Clear()
			if err := e.carts.Save(ctx, cart); err != nil {
				return fmt.Errorf("failed to clear cart: %w", err)
			}
		}
		order = placed
		return nil
	}, goodLockKeys(ids)...)
	if err != nil {
		return nil, err
	}

	e.store.Publish(order.PullEvents())
	return &CheckoutResult{
		OrderID:        order.OrderID().String(),
		TotalPointCost: order.TotalPointCost().Value(),
		Balance:        bal,
	}, nil
}

func parseLines(inputs []LineInput) ([]goods.CartLine, error) {
	lines := make([]goods.CartLine, 0, len(inputs))
	for _, in := range inputs {
		id, err := goods.GoodIDFromString(in.GoodID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse good ID: %w", err)
		}
		lines = append(lines, goods.CartLine{GoodID: id, Quantity: in.Quantity})
	}
	return lines, nil
}

// sameGoods 兩組已合併明細的商品集合相同（數量可以不同）
func sameGoods(a, b []goods.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].GoodID.Equals(b[i].GoodID) {
			return false
		}
	}
	return true
}
