package wallet_test

import (
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: 門檻表邊界
func TestResolveCoinsForYen_TierBoundaries(t *testing.T) {
	tests := []struct {
		yen   string
		coins int
	}{
		{"0", 0},
		{"1", 1},
		{"99", 99},
		{"99.9", 99},
		{"100", 100},
		{"999", 100},
		{"1000", 1000},
		{"2999", 1000},
		{"3000", 3600},
		{"4999", 3600},
		{"5000", 7000},
		{"100000", 7000},
	}

	for _, tt := range tests {
		t.Run(tt.yen, func(t *testing.T) {
			coins, err := wallet.ResolveCoinsForYen(decimal.RequireFromString(tt.yen))

			require.NoError(t, err)
			assert.Equal(t, tt.coins, coins.Value())
		})
	}
}

// Test 2: 負數金額無效
func TestResolveCoinsForYen_Negative_ReturnsInvalidPlan(t *testing.T) {
	_, err := wallet.ResolveCoinsForYen(decimal.NewFromInt(-1))

	assert.ErrorIs(t, err, wallet.ErrInvalidPlan)
}

// Test 3: 預設方案表合法且依價格排序
func TestNewCoinPlanTable_DefaultPlans(t *testing.T) {
	table, err := wallet.NewCoinPlanTable(wallet.DefaultCoinPlans())
	require.NoError(t, err)

	plans := table.Plans()
	require.Len(t, plans, 4)
	assert.Equal(t, 100, plans[0].Coins.Value())
	assert.Equal(t, 7000, plans[3].Coins.Value())
}

// Test 4: 方案與門檻表不一致時拒絕
func TestNewCoinPlanTable_InconsistentPlan_ReturnsInvalidPlan(t *testing.T) {
	tests := []struct {
		name  string
		plans []wallet.CoinPlan
	}{
		{"空表", nil},
		{"幣數不符", []wallet.CoinPlan{{Coins: wallet.MustCoinAmount(4000), Price: decimal.NewFromInt(3000)}}},
		{"價格為零", []wallet.CoinPlan{{Coins: wallet.MustCoinAmount(0), Price: decimal.Zero}}},
		{"重複價格", []wallet.CoinPlan{
			{Coins: wallet.MustCoinAmount(100), Price: decimal.NewFromInt(100)},
			{Coins: wallet.MustCoinAmount(100), Price: decimal.NewFromInt(100)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wallet.NewCoinPlanTable(tt.plans)
			assert.ErrorIs(t, err, wallet.ErrInvalidPlan)
		})
	}
}

// Test 5: Find 必須 coins 與 price 都相符
func TestCoinPlanTable_Find(t *testing.T) {
	table, err := wallet.NewCoinPlanTable(wallet.DefaultCoinPlans())
	require.NoError(t, err)

	plan, err := table.Find(3600, decimal.NewFromInt(3000))
	require.NoError(t, err)
	assert.True(t, plan.Price.Equal(decimal.NewFromInt(3000)))

	_, err = table.Find(3600, decimal.NewFromInt(3500))
	assert.ErrorIs(t, err, wallet.ErrInvalidPlan)

	_, err = table.FindByCoins(1234)
	assert.ErrorIs(t, err, wallet.ErrInvalidPlan)

	plan, err = table.FindByCoins(7000)
	require.NoError(t, err)
	assert.True(t, plan.Price.Equal(decimal.NewFromInt(5000)))
}
