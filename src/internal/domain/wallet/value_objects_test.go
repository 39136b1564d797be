package wallet_test

import (
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: 負數無法建立
func TestAmounts_RejectNegative(t *testing.T) {
	_, err := wallet.NewCoinAmount(-1)
	assert.ErrorIs(t, err, wallet.ErrNegativeAmount)

	_, err = wallet.NewPointsAmount(-1)
	assert.ErrorIs(t, err, wallet.ErrNegativeAmount)

	assert.Panics(t, func() { wallet.MustCoinAmount(-3) })
	assert.Panics(t, func() { wallet.MustPointsAmount(-3) })
}

// Test 2: Subtract 不足時返回對應錯誤
func TestAmounts_SubtractInsufficient(t *testing.T) {
	_, err := wallet.MustCoinAmount(10).Subtract(wallet.MustCoinAmount(11))
	assert.ErrorIs(t, err, wallet.ErrInsufficientCoins)

	_, err = wallet.MustPointsAmount(10).Subtract(wallet.MustPointsAmount(11))
	assert.ErrorIs(t, err, wallet.ErrInsufficientPoints)
}

// Test 3: Add / Subtract 不修改原值
func TestAmounts_Immutable(t *testing.T) {
	a := wallet.MustPointsAmount(10)

	sum := a.Add(wallet.MustPointsAmount(5))
	diff, err := a.Subtract(wallet.MustPointsAmount(4))

	require.NoError(t, err)
	assert.Equal(t, 10, a.Value())
	assert.Equal(t, 15, sum.Value())
	assert.Equal(t, 6, diff.Value())
	assert.True(t, diff.LessThan(a))
	assert.True(t, wallet.MustCoinAmount(0).IsZero())
}
