package goods

import "math"

// MaxLineQuantity 單一商品一行的數量上限（購物車、結帳、訂單明細共用）
const MaxLineQuantity = 999

// checkLineQuantity 數量必須在 1..MaxLineQuantity
func checkLineQuantity(goodID GoodID, quantity int) error {
	if quantity <= 0 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity.WithContext(
			"good_id", goodID.String(),
			"quantity", quantity,
			"max", MaxLineQuantity,
		)
	}
	return nil
}

// mulCost 單價 × 數量，溢位時返回 ErrInvalidQuantity
func mulCost(goodID GoodID, unitCost, quantity int) (int, error) {
	if err := checkLineQuantity(goodID, quantity); err != nil {
		return 0, err
	}
	if unitCost > math.MaxInt/quantity {
		return 0, ErrInvalidQuantity.WithContext(
			"good_id", goodID.String(),
			"quantity", quantity,
			"unit_point_cost", unitCost,
			"reason", "point cost overflows",
		)
	}
	return unitCost * quantity, nil
}

// addCost 累加總積分，溢位時返回 ErrInvalidQuantity
func addCost(total, cost int) (int, error) {
	if cost > math.MaxInt-total {
		return 0, ErrInvalidQuantity.WithContext("reason", "point total overflows")
	}
	return total + cost, nil
}
