package redemption

import (
	"fmt"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// 購物車
// ===========================

// CartLineView 購物車明細
type CartLineView struct {
	GoodID        string
	GoodName      string
	UnitPointCost int
	Quantity      int
	Subtotal      int
	Stock         int
}

// CartView 購物車內容與合計
type CartView struct {
	MemberID       string
	Lines          []CartLineView
	TotalPointCost int
}

// AddToCart 加入商品；已在車內時累加數量
func (e *Engine) AddToCart(memberID, goodID string, quantity int) (*CartView, error) {
	return e.mutateCart(memberID, goodID, true, func(c *goods.Cart, id goods.GoodID) error {
		return c.Add(id, quantity)
	})
}

// IncreaseCartItem 數量 +1
func (e *Engine) IncreaseCartItem(memberID, goodID string) (*CartView, error) {
	return e.mutateCart(memberID, goodID, false, func(c *goods.Cart, id goods.GoodID) error {
		return c.Increase(id)
	})
}

// DecreaseCartItem 數量 -1；數量為 1 時移除該行
func (e *Engine) DecreaseCartItem(memberID, goodID string) (*CartView, error) {
	return e.mutateCart(memberID, goodID, false, func(c *goods.Cart, id goods.GoodID) error {
		return c.Decrease(id)
	})
}

// RemoveCartItem 移除該行
func (e *Engine) RemoveCartItem(memberID, goodID string) (*CartView, error) {
	return e.mutateCart(memberID, goodID, false, func(c *goods.Cart, id goods.GoodID) error {
		return c.Remove(id)
	})
}

// ViewCart 購物車內容（唯讀）
func (e *Engine) ViewCart(memberID string) (*CartView, error) {
	id, err := parseMemberID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	cart, err := e.carts.FindByMemberID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return e.cartView(nil, cart)
}

func (e *Engine) mutateCart(
	memberID, goodID string,
	requireGood bool,
	fn func(c *goods.Cart, id goods.GoodID) error,
) (*CartView, error) {
	mid, err := parseMemberID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	gid, err := goods.GoodIDFromString(goodID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse good ID: %w", err)
	}

	var view *CartView
	err = e.txManager.InLockedTransaction([]string{wallet.LockKey(mid)}, func(ctx shared.TransactionContext) error {
		if requireGood {
			if _, err := e.goods.FindByID(ctx, gid); err != nil {
				return fmt.Errorf("failed to find good: %w", err)
			}
		}
		cart, err := e.carts.FindByMemberID(ctx, mid)
		if err != nil {
			return fmt.Errorf("failed to find cart: %w", err)
		}
		if err := fn(cart, gid); err != nil {
			return err
		}
		if err := e.carts.Save(ctx, cart); err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		view, err = e.cartView(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (e *Engine) cartView(ctx shared.TransactionContext, cart *goods.Cart) (*CartView, error) {
	view := &CartView{MemberID: cart.MemberID().String(), Lines: []CartLineView{}}
	for _, l := range cart.Lines() {
		g, err := e.goods.FindByID(ctx, l.GoodID)
		if err != nil {
			return nil, fmt.Errorf("failed to find good: %w", err)
		}
		cost, err := g.LineCost(l.Quantity)
		if err != nil {
			return nil, err
		}
		subtotal := cost.Value()
		view.Lines = append(view.Lines, CartLineView{
			GoodID:        g.GoodID().String(),
			GoodName:      g.Name(),
			UnitPointCost: g.PointCost(),
			Quantity:      l.Quantity,
			Subtotal:      subtotal,
			Stock:         g.Stock(),
		})
		view.TotalPointCost += subtotal
	}
	return view, nil
}
