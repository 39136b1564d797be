package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stanning_ledger"

// Metrics 帳本的 Prometheus 指標
type Metrics struct {
	coinsPurchased  prometheus.Counter
	coinsSpent      prometheus.Counter
	cheers          prometheus.Counter
	pointsGranted   *prometheus.CounterVec
	pointsSpent     prometheus.Counter
	orders          *prometheus.CounterVec
	subscriptions   *prometheus.CounterVec
	grantCycleRuns  *prometheus.CounterVec
	grantCycleTime  prometheus.Histogram
	operationErrors *prometheus.CounterVec
}

// MustNewMetrics 建立並註冊指標；reg 為 nil 時使用 prometheus.DefaultRegisterer。
// 已註冊過的 collector 會沿用既有實例。
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		coinsPurchased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "coins_purchased_total",
			Help: "Cheer coins credited by confirmed purchases.",
		}),
		coinsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "coins_spent_total",
			Help: "Cheer coins debited by cheer actions.",
		}),
		cheers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cheers_total",
			Help: "Successful cheer actions.",
		}),
		pointsGranted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "points_granted_total",
			Help: "Stanning points credited, by source.",
		}, []string{"source"}),
		pointsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "points_spent_total",
			Help: "Stanning points debited by redemptions.",
		}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_total",
			Help: "Order lifecycle transitions, by event.",
		}, []string{"event"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "subscription_events_total",
			Help: "Subscription lifecycle transitions, by event.",
		}, []string{"event"}),
		grantCycleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "grant_cycle_runs_total",
			Help: "Daily grant cycle runs, by result.",
		}, []string{"result"}),
		grantCycleTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "grant_cycle_duration_seconds",
			Help:    "Duration of the daily grant cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_errors_total",
			Help: "Ledger operations that returned an error, by operation and error code.",
		}, []string{"operation", "code"}),
	}

	m.coinsPurchased = register(reg, m.coinsPurchased)
	m.coinsSpent = register(reg, m.coinsSpent)
	m.cheers = register(reg, m.cheers)
	m.pointsGranted = register(reg, m.pointsGranted)
	m.pointsSpent = register(reg, m.pointsSpent)
	m.orders = register(reg, m.orders)
	m.subscriptions = register(reg, m.subscriptions)
	m.grantCycleRuns = register(reg, m.grantCycleRuns)
	m.grantCycleTime = register(reg, m.grantCycleTime)
	m.operationErrors = register(reg, m.operationErrors)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveGrantCycle 記錄一次每日發放
func (m *Metrics) ObserveGrantCycle(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.grantCycleRuns.WithLabelValues(result).Inc()
	m.grantCycleTime.Observe(duration.Seconds())
}

// IncOperationError 記錄失敗的操作
func (m *Metrics) IncOperationError(operation, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	m.operationErrors.WithLabelValues(operation, code).Inc()
}
