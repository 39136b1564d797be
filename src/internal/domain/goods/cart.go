package goods

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"

// CartLine 購物車或結帳的一行：(商品, 數量)
type CartLine struct {
	GoodID   GoodID
	Quantity int
}

// ===========================
// Cart 購物車
// ===========================

// Cart 會員購物車（每個商品最多一行，依加入順序）
type Cart struct {
	memberID wallet.MemberID
	lines    []CartLine
}

// NewCart 空購物車
func NewCart(memberID wallet.MemberID) *Cart {
	return &Cart{memberID: memberID}
}

// ReconstructCart 從持久化資料重建，重複的商品行會合併；不合法的數量整行略過
func ReconstructCart(memberID wallet.MemberID, lines []CartLine) *Cart {
	c := NewCart(memberID)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		_ = c.Add(l.GoodID, l.Quantity)
	}
	return c
}

// MemberID 擁有者
func (c *Cart) MemberID() wallet.MemberID { return c.memberID }

// Lines 明細副本
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// IsEmpty 是否為空
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Quantity 某商品目前數量，不在車內時為 0
func (c *Cart) Quantity(goodID GoodID) int {
	if i := c.indexOf(goodID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Add 加入商品；已在車內時累加數量，累加後不得超過 MaxLineQuantity
func (c *Cart) Add(goodID GoodID, quantity int) error {
	if goodID.IsEmpty() {
		return ErrInvalidGoodID.WithContext("reason", "goodID cannot be empty")
	}
	if err := checkLineQuantity(goodID, quantity); err != nil {
		return err
	}
	if i := c.indexOf(goodID); i >= 0 {
		if err := checkLineQuantity(goodID, c.lines[i].Quantity+quantity); err != nil {
			return err
		}
		c.lines[i].Quantity += quantity
		return nil
	}
	c.lines = append(c.lines, CartLine{GoodID: goodID, Quantity: quantity})
	return nil
}

// Increase 數量 +1，已達 MaxLineQuantity 時返回 ErrInvalidQuantity
func (c *Cart) Increase(goodID GoodID) error {
	i := c.indexOf(goodID)
	if i < 0 {
		return ErrCartItemNotFound.WithContext("good_id", goodID.String())
	}
	if err := checkLineQuantity(goodID, c.lines[i].Quantity+1); err != nil {
		return err
	}
	c.lines[i].Quantity++
	return nil
}

// Decrease 數量 -1；數量為 1 時移除該行
func (c *Cart) Decrease(goodID GoodID) error {
	i := c.indexOf(goodID)
	if i < 0 {
		return ErrCartItemNotFound.WithContext("good_id", goodID.String())
	}
	if c.lines[i].Quantity <= 1 {
		c.removeAt(i)
		return nil
	}
	c.lines[i].Quantity--
	return nil
}

// Remove 移除該行
func (c *Cart) Remove(goodID GoodID) error {
	i := c.indexOf(goodID)
	if i < 0 {
		return ErrCartItemNotFound.WithContext("good_id", goodID.String())
	}
	c.removeAt(i)
	return nil
}

// Clear 清空
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) indexOf(goodID GoodID) int {
	for i, l := range c.lines {
		if l.GoodID.Equals(goodID) {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
