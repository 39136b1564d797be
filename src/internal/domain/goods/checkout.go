package goods

import (
	"sort"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// Checkout 領域服務
// ===========================

// CheckoutPlan 通過驗證的結帳內容
type CheckoutPlan struct {
	Lines []OrderLine
	Total wallet.PointsAmount
}

// MergeLines 合併同一商品的數量，結果依 GoodID 升冪
//
// 每行（合併前後）數量都必須在 1..MaxLineQuantity。
// 升冪順序同時是取得商品鎖的順序。
func MergeLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	byID := make(map[string]*CartLine, len(lines))
	merged := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.GoodID.IsEmpty() {
			return nil, ErrInvalidGoodID.WithContext("reason", "goodID cannot be empty")
		}
		if err := checkLineQuantity(l.GoodID, l.Quantity); err != nil {
			return nil, err
		}
		if existing, ok := byID[l.GoodID.String()]; ok {
			if err := checkLineQuantity(l.GoodID, existing.Quantity+l.Quantity); err != nil {
				return nil, err
			}
			existing.Quantity += l.Quantity
			continue
		}
		merged = append(merged, l)
		byID[l.GoodID.String()] = &merged[len(merged)-1]
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].GoodID.Compare(merged[j].GoodID) < 0
	})
	return merged, nil
}

// PrepareCheckout 計算總積分並依序驗證：(a) 積分足夠 (b) 每一行庫存足夠
//
// 不修改任何狀態。lines 必須已經過 MergeLines；goods 以 GoodID 字串為鍵，
// 缺少的商品返回 ErrGoodNotFound。
func PrepareCheckout(balance wallet.PointsAmount, lines []CartLine, goods map[string]*RedeemableGood) (CheckoutPlan, error) {
	orderLines := make([]OrderLine, 0, len(lines))
	sum := 0
	for _, l := range lines {
		g, ok := goods[l.GoodID.String()]
		if !ok {
			return CheckoutPlan{}, ErrGoodNotFound.WithContext("good_id", l.GoodID.String())
		}
		cost, err := g.LineCost(l.Quantity)
		if err != nil {
			return CheckoutPlan{}, err
		}
		if sum, err = addCost(sum, cost.Value()); err != nil {
			return CheckoutPlan{}, err
		}
		orderLines = append(orderLines, OrderLine{
			GoodID:        g.GoodID(),
			GoodName:      g.Name(),
			Quantity:      l.Quantity,
			UnitPointCost: g.PointCost(),
		})
	}

	total, err := wallet.NewPointsAmount(sum)
	if err != nil {
		return CheckoutPlan{}, err
	}
	if balance.LessThan(total) {
		return CheckoutPlan{}, wallet.ErrInsufficientPoints.WithContext(
			"requested", total.Value(),
			"available", balance.Value(),
		)
	}

	for _, l := range lines {
		g := goods[l.GoodID.String()]
		if !g.HasStock(l.Quantity) {
			return CheckoutPlan{}, g.insufficientStock(l.Quantity)
		}
	}

	return CheckoutPlan{Lines: orderLines, Total: total}, nil
}
