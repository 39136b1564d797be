package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/redemption"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/subscribe"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/observability"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/persistence"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	facade  *Facade
	metrics *observability.Metrics
	reg     *prometheus.Registry
	goods   goods.GoodRepository
}

func newHarness(t *testing.T, today time.Time) *harness {
	t.Helper()
	db := persistence.NewTestDB(t)
	reg := prometheus.NewRegistry()
	metrics := observability.MustNewMetrics(reg)
	plans, err := persistence.NewCachedPlanRepository(persistence.NewPlanRepository(db), 16)
	require.NoError(t, err)
	goodRepo := persistence.NewGoodRepository(db)

	facade, err := New(Dependencies{
		Wallets:       persistence.NewWalletRepository(db),
		Purchases:     persistence.NewPurchaseRecordRepository(db),
		Scores:        persistence.NewAnimalScoreRepository(db),
		Goods:         goodRepo,
		Orders:        persistence.NewOrderRepository(db),
		Carts:         persistence.NewCartRepository(db),
		Plans:         plans,
		Subscriptions: persistence.NewSubscriptionRepository(db),
		TxManager:     persistence.NewGORMTransactionManager(db),
		Rules:         exchange.DefaultRules(),
		Publisher:     observability.CompositePublisher{observability.NewMetricsPublisher(metrics)},
		Clock:         shared.FixedClock{At: today},
		Observer:      metrics,
		Errors:        metrics,
	})
	require.NoError(t, err)

	sb1, err := subscription.NewPlan("sb1", "月額サポート", decimal.NewFromInt(1000), 15, subscription.TermRecurring, 0)
	require.NoError(t, err)
	require.NoError(t, facade.SeedPlans([]*subscription.Plan{sb1}))
	return &harness{facade: facade, metrics: metrics, reg: reg, goods: goodRepo}
}

// Test 1: 購幣 → 應援 → 訂閱 → 兌換 → 取消，指標與餘額一致
func TestFacade_MemberJourney(t *testing.T) {
	// Arrange
	h := newHarness(t, time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC))
	memberID := wallet.NewMemberID().String()
	_, err := h.facade.OpenWallet(memberID)
	require.NoError(t, err)

	// Act：100 円 → 100 幣 → 應援
	_, err = h.facade.PurchaseCoins(exchange.PurchaseCoinsCommand{MemberID: memberID, Coins: 100, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	cheer, err := h.facade.Cheer(exchange.CheerCommand{MemberID: memberID, AnimalID: "panda"})
	require.NoError(t, err)
	assert.Equal(t, 0, cheer.Balance.CoinBalance)
	assert.Equal(t, 1, cheer.Balance.PointBalance)

	// Act：訂閱 sb1
	joined, err := h.facade.JoinSubscription(subscribe.JoinCommand{MemberID: memberID, PlanCode: "sb1", AnimalID: "panda"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), joined.EndDate)
	assert.Equal(t, 16, joined.Balance.PointBalance)

	// Act：兌換後取消
	g, err := goods.NewRedeemableGood("ステッカー", 16, 1)
	require.NoError(t, err)
	require.NoError(t, h.goods.Save(nil, g))
	checkout, err := h.facade.Checkout(redemption.CheckoutCommand{
		MemberID: memberID,
		Lines:    []redemption.LineInput{{GoodID: g.GoodID().String(), Quantity: 1}},
		Shipping: goods.ShippingAddress{RecipientName: "山田", PostalCode: "1500001", Address: "東京都渋谷区"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, checkout.Balance.PointBalance)
	_, err = h.facade.CancelOrder(redemption.CancelOrderCommand{OrderID: checkout.OrderID, MemberID: memberID})
	require.NoError(t, err)

	// Assert
	b, err := h.facade.Balance(memberID)
	require.NoError(t, err)
	assert.Equal(t, 16, b.PointBalance)

	expected := `
# HELP stanning_ledger_cheers_total Successful cheer actions.
# TYPE stanning_ledger_cheers_total counter
stanning_ledger_cheers_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(h.reg, strings.NewReader(expected), "stanning_ledger_cheers_total"))
	orderSeries, err := testutil.GatherAndCount(h.reg, "stanning_ledger_orders_total")
	require.NoError(t, err)
	assert.Equal(t, 2, orderSeries) // placed, cancelled
}

// Test 2: 領域錯誤原樣返回且計入錯誤指標
func TestFacade_RecordsOperationErrors(t *testing.T) {
	// Arrange
	h := newHarness(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	memberID := wallet.NewMemberID().String()

	// Act
	_, err := h.facade.Cheer(exchange.CheerCommand{MemberID: memberID, AnimalID: "panda"})

	// Assert
	assert.ErrorIs(t, err, wallet.ErrInsufficientCoins)
	assert.False(t, shared.IsRetryable(err))
	expected := `
# HELP stanning_ledger_operation_errors_total Ledger operations that returned an error, by operation and error code.
# TYPE stanning_ledger_operation_errors_total counter
stanning_ledger_operation_errors_total{code="COINS_INSUFFICIENT",operation="cheer"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(h.reg, strings.NewReader(expected), "stanning_ledger_operation_errors_total"))
}

// Test 3: 每日發放經過 Facade，結果寫入指標
func TestFacade_RunDailyGrantCycle(t *testing.T) {
	// Arrange
	h := newHarness(t, time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC))
	memberID := wallet.NewMemberID().String()
	_, err := h.facade.JoinSubscription(subscribe.JoinCommand{MemberID: memberID, PlanCode: "sb1", AnimalID: "panda"})
	require.NoError(t, err)

	// Act
	report, err := h.facade.RunDailyGrantCycle(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Granted)
	b, err := h.facade.Balance(memberID)
	require.NoError(t, err)
	assert.Equal(t, 30, b.PointBalance)
	runs, err := testutil.GatherAndCount(h.reg, "stanning_ledger_grant_cycle_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}
