package wallet

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ===========================
// 購幣方案（Coin Tier）
// ===========================

// CoinPlan 一個已解析的購幣方案：支付 Price 日圓，得到 Coins 應援幣
type CoinPlan struct {
	Coins CoinAmount
	Price decimal.Decimal
}

// String 方便日誌輸出
func (p CoinPlan) String() string {
	return fmt.Sprintf("%d coins / ¥%s", p.Coins.Value(), p.Price.String())
}

// coinTier 金額門檻 → 應援幣數量
type coinTier struct {
	minYen int64
	coins  int
}

// coinTiers 由高到低比對；低於最小門檻時 1 日圓 = 1 枚
var coinTiers = []coinTier{
	{minYen: 5000, coins: 7000},
	{minYen: 3000, coins: 3600},
	{minYen: 1000, coins: 1000},
	{minYen: 100, coins: 100},
}

// ResolveCoinsForYen 依門檻表換算支付金額可得的應援幣
//
// 門檻：>=5000 → 7000、>=3000 → 3600、>=1000 → 1000、>=100 → 100，
// 其餘按 1:1（不足 1 日圓的部分捨去）。
func ResolveCoinsForYen(yen decimal.Decimal) (CoinAmount, error) {
	if yen.IsNegative() {
		return CoinAmount{}, ErrInvalidPlan.WithContext(
			"price", yen.String(),
			"reason", "negative price",
		)
	}
	for _, tier := range coinTiers {
		if yen.GreaterThanOrEqual(decimal.NewFromInt(tier.minYen)) {
			return CoinAmount{value: tier.coins}, nil
		}
	}
	return CoinAmount{value: int(yen.Floor().IntPart())}, nil
}

// DefaultCoinPlans 上架中的購幣方案
func DefaultCoinPlans() []CoinPlan {
	return []CoinPlan{
		{Coins: MustCoinAmount(100), Price: decimal.NewFromInt(100)},
		{Coins: MustCoinAmount(1000), Price: decimal.NewFromInt(1000)},
		{Coins: MustCoinAmount(3600), Price: decimal.NewFromInt(3000)},
		{Coins: MustCoinAmount(7000), Price: decimal.NewFromInt(5000)},
	}
}

// CoinPlanTable 不可變的購幣方案表（由設定注入）
type CoinPlanTable struct {
	plans []CoinPlan
}

// NewCoinPlanTable 建立方案表
//
// 每個方案的 Coins 必須等於 ResolveCoinsForYen(Price)，否則返回 ErrInvalidPlan；
// 同一價格不能出現兩次。
func NewCoinPlanTable(plans []CoinPlan) (*CoinPlanTable, error) {
	if len(plans) == 0 {
		return nil, ErrInvalidPlan.WithContext("reason", "empty coin plan table")
	}

	seen := make(map[string]struct{}, len(plans))
	copied := make([]CoinPlan, 0, len(plans))
	for _, p := range plans {
		if !p.Price.IsPositive() {
			return nil, ErrInvalidPlan.WithContext("plan", p.String(), "reason", "price must be positive")
		}
		expected, err := ResolveCoinsForYen(p.Price)
		if err != nil {
			return nil, err
		}
		if expected.Value() != p.Coins.Value() {
			return nil, ErrInvalidPlan.WithContext(
				"plan", p.String(),
				"expected_coins", expected.Value(),
			)
		}
		key := p.Price.String()
		if _, dup := seen[key]; dup {
			return nil, ErrInvalidPlan.WithContext("plan", p.String(), "reason", "duplicate price")
		}
		seen[key] = struct{}{}
		copied = append(copied, p)
	}

	sort.Slice(copied, func(i, j int) bool {
		return copied[i].Price.LessThan(copied[j].Price)
	})
	return &CoinPlanTable{plans: copied}, nil
}

// Plans 返回方案副本（依價格升冪）
func (t *CoinPlanTable) Plans() []CoinPlan {
	out := make([]CoinPlan, len(t.plans))
	copy(out, t.plans)
	return out
}

// Find 查找 {coins, price} 完全相符的方案
func (t *CoinPlanTable) Find(coins int, price decimal.Decimal) (CoinPlan, error) {
	for _, p := range t.plans {
		if p.Coins.Value() == coins && p.Price.Equal(price) {
			return p, nil
		}
	}
	return CoinPlan{}, ErrInvalidPlan.WithContext(
		"coins", coins,
		"price", price.String(),
	)
}

// FindByCoins 依應援幣數量查找方案
func (t *CoinPlanTable) FindByCoins(coins int) (CoinPlan, error) {
	for _, p := range t.plans {
		if p.Coins.Value() == coins {
			return p, nil
		}
	}
	return CoinPlan{}, ErrInvalidPlan.WithContext("coins", coins)
}
