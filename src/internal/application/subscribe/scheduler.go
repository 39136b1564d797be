// Package subscribe 訂閱加入、取消與每日積分發放
package subscribe

import (
	"log/slog"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/balance"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
)

// CycleObserver 接收每日發放的結果（指標）
type CycleObserver interface {
	ObserveGrantCycle(result string, duration time.Duration)
}

// Scheduler 訂閱的狀態與日期由這裡獨佔修改
//
// 鎖的範圍：
// - Join：member 鍵（同一會員的重複訂閱檢查）
// - Cancel / Expire：subscription 鍵
// - 續期發放：subscription 鍵 + member 鍵
// 取消與發放共用 subscription 鍵，因此不會交錯。
type Scheduler struct {
	store         *balance.Store
	exchange      *exchange.Engine
	plans         subscription.PlanRepository
	subscriptions subscription.SubscriptionRepository
	txManager     shared.TransactionManager
	clock         shared.Clock
	logger        *slog.Logger
	observer      CycleObserver
}

// Option 可選設定
type Option func(*Scheduler)

// WithClock 指定時間來源（預設系統時間）
func WithClock(clock shared.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithLogger 指定日誌
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithCycleObserver 指定每日發放結果的接收者
func WithCycleObserver(observer CycleObserver) Option {
	return func(s *Scheduler) { s.observer = observer }
}

// NewScheduler 創建 Scheduler
func NewScheduler(
	store *balance.Store,
	exchangeEngine *exchange.Engine,
	plans subscription.PlanRepository,
	subscriptions subscription.SubscriptionRepository,
	txManager shared.TransactionManager,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		store:         store,
		exchange:      exchangeEngine,
		plans:         plans,
		subscriptions: subscriptions,
		txManager:     txManager,
		clock:         shared.SystemClock{},
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
