// Package ledger 外部協作者（展示層、排程、管理端）呼叫的唯一入口
package ledger

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/balance"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/redemption"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/subscribe"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ErrorRecorder 接收失敗操作（指標）
type ErrorRecorder interface {
	IncOperationError(operation, code string)
}

// Dependencies 組裝 Facade 所需的倉儲與基礎設施
type Dependencies struct {
	Wallets       wallet.WalletRepository
	Purchases     wallet.PurchaseRecordRepository
	Scores        animal.ScoreRepository
	Goods         goods.GoodRepository
	Orders        goods.OrderRepository
	Carts         goods.CartRepository
	Plans         subscription.PlanRepository
	Subscriptions subscription.SubscriptionRepository
	TxManager     shared.TransactionManager

	Rules     exchange.Rules
	Publisher shared.EventPublisher
	Clock     shared.Clock
	Logger    *slog.Logger
	Observer  subscribe.CycleObserver
	Errors    ErrorRecorder
}

// Facade 依序呼叫各引擎，並統一記錄失敗
//
// 錯誤原樣返回：呼叫者以 errors.Is 判斷領域錯誤，
// shared.IsRetryable 為 true 時（ErrStorage）可以退避後重試。
type Facade struct {
	exchange   *exchange.Engine
	redemption *redemption.Engine
	scheduler  *subscribe.Scheduler
	logger     *slog.Logger
	errors     ErrorRecorder
}

// New 組裝 Facade
func New(deps Dependencies) (*Facade, error) {
	clock := deps.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := balance.NewStore(deps.Wallets, deps.TxManager, deps.Publisher)
	exchangeEngine, err := exchange.NewEngine(store, deps.Purchases, deps.Scores, deps.Rules, clock)
	if err != nil {
		return nil, err
	}
	redemptionEngine := redemption.NewEngine(store, deps.Goods, deps.Orders, deps.Carts, deps.TxManager, clock)

	opts := []subscribe.Option{subscribe.WithClock(clock), subscribe.WithLogger(logger)}
	if deps.Observer != nil {
		opts = append(opts, subscribe.WithCycleObserver(deps.Observer))
	}
	scheduler := subscribe.NewScheduler(store, exchangeEngine, deps.Plans, deps.Subscriptions, deps.TxManager, opts...)

	return &Facade{
		exchange:   exchangeEngine,
		redemption: redemptionEngine,
		scheduler:  scheduler,
		logger:     logger,
		errors:     deps.Errors,
	}, nil
}

// ===========================
// 錢包與兌換
// ===========================

// OpenWallet 會員註冊時建立空錢包
func (f *Facade) OpenWallet(memberID string) (wallet.Balance, error) {
	b, err := f.exchange.OpenWallet(memberID)
	return b, f.record("open_wallet", err)
}

// PurchaseCoins 入帳已授權的購幣
func (f *Facade) PurchaseCoins(cmd exchange.PurchaseCoinsCommand) (*exchange.PurchaseCoinsResult, error) {
	r, err := f.exchange.PurchaseCoins(cmd)
	return r, f.record("purchase_coins", err)
}

// Cheer 應援
func (f *Facade) Cheer(cmd exchange.CheerCommand) (*exchange.CheerResult, error) {
	r, err := f.exchange.Cheer(cmd)
	return r, f.record("cheer", err)
}

// Balance 目前餘額
func (f *Facade) Balance(memberID string) (wallet.Balance, error) {
	b, err := f.exchange.GetBalance(memberID)
	return b, f.record("balance", err)
}

// PurchaseHistory 購幣紀錄
func (f *Facade) PurchaseHistory(memberID string) ([]exchange.PurchaseView, error) {
	v, err := f.exchange.PurchaseHistory(memberID)
	return v, f.record("purchase_history", err)
}

// CoinPlans 可購買的方案
func (f *Facade) CoinPlans() []wallet.CoinPlan {
	return f.exchange.CoinPlans()
}

// Ranking 動物排行
func (f *Facade) Ranking(limit int) ([]animal.RankEntry, error) {
	r, err := f.exchange.Ranking(limit)
	return r, f.record("ranking", err)
}

// ===========================
// 商品兌換
// ===========================

// Goods 商品目錄
func (f *Facade) Goods() ([]*goods.RedeemableGood, error) {
	g, err := f.redemption.ListGoods()
	return g, f.record("list_goods", err)
}

// AddToCart 加入購物車
func (f *Facade) AddToCart(memberID, goodID string, quantity int) (*redemption.CartView, error) {
	v, err := f.redemption.AddToCart(memberID, goodID, quantity)
	return v, f.record("cart_add", err)
}

// IncreaseCartItem 數量 +1
func (f *Facade) IncreaseCartItem(memberID, goodID string) (*redemption.CartView, error) {
	v, err := f.redemption.IncreaseCartItem(memberID, goodID)
	return v, f.record("cart_increase", err)
}

// DecreaseCartItem 數量 -1
func (f *Facade) DecreaseCartItem(memberID, goodID string) (*redemption.CartView, error) {
	v, err := f.redemption.DecreaseCartItem(memberID, goodID)
	return v, f.record("cart_decrease", err)
}

// RemoveCartItem 移除
func (f *Facade) RemoveCartItem(memberID, goodID string) (*redemption.CartView, error) {
	v, err := f.redemption.RemoveCartItem(memberID, goodID)
	return v, f.record("cart_remove", err)
}

// ViewCart 購物車
func (f *Facade) ViewCart(memberID string) (*redemption.CartView, error) {
	v, err := f.redemption.ViewCart(memberID)
	return v, f.record("cart_view", err)
}

// Checkout 結帳
func (f *Facade) Checkout(cmd redemption.CheckoutCommand) (*redemption.CheckoutResult, error) {
	r, err := f.redemption.Checkout(cmd)
	return r, f.record("checkout", err)
}

// CancelOrder 取消訂單
func (f *Facade) CancelOrder(cmd redemption.CancelOrderCommand) (*redemption.CancelOrderResult, error) {
	r, err := f.redemption.CancelOrder(cmd)
	return r, f.record("cancel_order", err)
}

// ShipOrder 出貨
func (f *Facade) ShipOrder(orderID string) (*redemption.OrderView, error) {
	v, err := f.redemption.ShipOrder(orderID)
	return v, f.record("ship_order", err)
}

// OrderHistory 訂單歷史
func (f *Facade) OrderHistory(memberID string) ([]redemption.OrderView, error) {
	v, err := f.redemption.OrderHistory(memberID)
	return v, f.record("order_history", err)
}

// OrderDetail 訂單明細（僅擁有者）
func (f *Facade) OrderDetail(memberID, orderID string) (*redemption.OrderView, error) {
	v, err := f.redemption.OrderDetail(memberID, orderID)
	return v, f.record("order_detail", err)
}

// ===========================
// 訂閱
// ===========================

// JoinSubscription 加入訂閱
func (f *Facade) JoinSubscription(cmd subscribe.JoinCommand) (*subscribe.JoinResult, error) {
	r, err := f.scheduler.Join(cmd)
	return r, f.record("join_subscription", err)
}

// CancelSubscription 取消月額訂閱
func (f *Facade) CancelSubscription(cmd subscribe.CancelCommand) error {
	return f.record("cancel_subscription", f.scheduler.Cancel(cmd))
}

// Subscriptions 會員的訂閱
func (f *Facade) Subscriptions(memberID string) ([]subscribe.SubscriptionView, error) {
	v, err := f.scheduler.ListSubscriptions(memberID)
	return v, f.record("list_subscriptions", err)
}

// SubscribePlans 方案目錄
func (f *Facade) SubscribePlans() ([]subscribe.PlanView, error) {
	v, err := f.scheduler.Plans()
	return v, f.record("list_plans", err)
}

// SeedPlans 寫入方案目錄
func (f *Facade) SeedPlans(plans []*subscription.Plan) error {
	return f.record("seed_plans", f.scheduler.SeedPlans(plans))
}

// RunDailyGrantCycle 每日發放；重複或遺漏的呼叫都是安全的
func (f *Facade) RunDailyGrantCycle(today time.Time) (*subscribe.GrantReport, error) {
	r, err := f.scheduler.RunDailyGrantCycle(today)
	return r, f.record("grant_cycle", err)
}

// record 記錄失敗並原樣返回 err
func (f *Facade) record(operation string, err error) error {
	if err == nil {
		return nil
	}
	code := string(shared.CodeOf(err))
	if f.errors != nil {
		f.errors.IncOperationError(operation, code)
	}

	var de *shared.DomainError
	if shared.IsRetryable(err) || !errors.As(err, &de) {
		f.logger.Error("operation failed", "operation", operation, "code", code, "error", err)
	} else {
		f.logger.Debug("operation rejected", "operation", operation, "code", code, "error", err)
	}
	return err
}
