package observability

import (
	"errors"
	"log/slog"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// LoggingPublisher
// ===========================

// LoggingPublisher 將已提交的領域事件寫入日誌
type LoggingPublisher struct {
	logger *slog.Logger
}

// NewLoggingPublisher 建立 LoggingPublisher
func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: OrNop(logger)}
}

// Publish 實現 shared.EventPublisher
func (p *LoggingPublisher) Publish(event shared.DomainEvent) error {
	attrs := []any{
		"event_id", event.EventID(),
		"aggregate_id", event.AggregateID(),
		"occurred_at", event.OccurredAt(),
	}
	attrs = append(attrs, eventAttrs(event)...)
	p.logger.Info(event.EventType(), attrs...)
	return nil
}

// PublishBatch 實現 shared.EventPublisher
func (p *LoggingPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, e := range events {
		_ = p.Publish(e)
	}
	return nil
}

func eventAttrs(event shared.DomainEvent) []any {
	switch e := event.(type) {
	case *wallet.CoinsPurchasedEvent:
		return []any{"member_id", e.MemberID.String(), "coins", e.Coins.Value(), "price", e.Price.String(), "payment_ref", e.PaymentRef}
	case *wallet.CheeredEvent:
		return []any{"member_id", e.MemberID.String(), "animal_id", e.AnimalID, "coins", e.CoinsSpent.Value(), "points", e.PointsEarned.Value()}
	case *wallet.PointsCreditedEvent:
		return []any{"member_id", e.MemberID.String(), "points", e.Amount.Value(), "source", string(e.Source), "source_id", e.SourceID}
	case *wallet.PointsDebitedEvent:
		return []any{"member_id", e.MemberID.String(), "points", e.Amount.Value(), "source", string(e.Source), "source_id", e.SourceID}
	case *wallet.WalletOpenedEvent:
		return []any{"member_id", e.MemberID.String()}
	case *goods.OrderEvent:
		return []any{"member_id", e.MemberID.String(), "order_id", e.OrderID.String(), "total_points", e.TotalPointCost, "lines", len(e.Lines)}
	case *subscription.JoinedEvent:
		return []any{"member_id", e.MemberID.String(), "plan", e.PlanCode, "animal_id", e.AnimalID, "end_date", e.EndDate.Format(subscription.DateLayout)}
	case *subscription.RenewedEvent:
		return []any{"member_id", e.MemberID.String(), "plan", e.PlanCode, "end_date", e.EndDate.Format(subscription.DateLayout), "points", e.PointsGranted.Value()}
	case *subscription.StatusChangedEvent:
		return []any{"member_id", e.MemberID.String(), "plan", e.PlanCode, "animal_id", e.AnimalID, "status", string(e.Status)}
	}
	return nil
}

// ===========================
// MetricsPublisher
// ===========================

// MetricsPublisher 依事件更新指標
type MetricsPublisher struct {
	metrics *Metrics
}

// NewMetricsPublisher 建立 MetricsPublisher
func NewMetricsPublisher(metrics *Metrics) *MetricsPublisher {
	return &MetricsPublisher{metrics: metrics}
}

// Publish 實現 shared.EventPublisher
func (p *MetricsPublisher) Publish(event shared.DomainEvent) error {
	m := p.metrics
	if m == nil {
		return nil
	}
	switch e := event.(type) {
	case *wallet.CoinsPurchasedEvent:
		m.coinsPurchased.Add(float64(e.Coins.Value()))
	case *wallet.CheeredEvent:
		m.cheers.Inc()
		m.coinsSpent.Add(float64(e.CoinsSpent.Value()))
		m.pointsGranted.WithLabelValues(string(wallet.PointsSourceCheer)).Add(float64(e.PointsEarned.Value()))
	case *wallet.PointsCreditedEvent:
		m.pointsGranted.WithLabelValues(string(e.Source)).Add(float64(e.Amount.Value()))
	case *wallet.PointsDebitedEvent:
		m.pointsSpent.Add(float64(e.Amount.Value()))
	case *goods.OrderEvent:
		m.orders.WithLabelValues(e.EventType()).Inc()
	case *subscription.JoinedEvent, *subscription.RenewedEvent, *subscription.StatusChangedEvent:
		m.subscriptions.WithLabelValues(event.EventType()).Inc()
	}
	return nil
}

// PublishBatch 實現 shared.EventPublisher
func (p *MetricsPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, e := range events {
		_ = p.Publish(e)
	}
	return nil
}

// ===========================
// CompositePublisher
// ===========================

// CompositePublisher 依序交給每個 publisher，錯誤合併返回
type CompositePublisher []shared.EventPublisher

// Publish 實現 shared.EventPublisher
func (c CompositePublisher) Publish(event shared.DomainEvent) error {
	var errs []error
	for _, p := range c {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch 實現 shared.EventPublisher
func (c CompositePublisher) PublishBatch(events []shared.DomainEvent) error {
	var errs []error
	for _, p := range c {
		if err := p.PublishBatch(events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
