package subscribe

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
)

// SubscriptionView 訂閱
type SubscriptionView struct {
	SubscriptionID string
	PlanCode       string
	AnimalID       string
	TermKind       string
	Status         string
	IsActive       bool
	PointGrant     int
	StartDate      time.Time
	EndDate        time.Time
	ElapsedMonths  int
}

// PlanView 方案
type PlanView struct {
	Code            string
	Name            string
	AmountDue       decimal.Decimal
	PointGrant      int
	TermKind        string
	FixedTermMonths int
}

// ListSubscriptions 會員的所有訂閱（含已取消、已失效），依開始日新到舊
func (s *Scheduler) ListSubscriptions(memberID string) ([]SubscriptionView, error) {
	id, err := wallet.MemberIDFromString(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	subs, err := s.subscriptions.ListByMemberID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	views := make([]SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, SubscriptionView{
			SubscriptionID: sub.SubscriptionID().String(),
			PlanCode:       sub.PlanCode(),
			AnimalID:       sub.AnimalID(),
			TermKind:       string(sub.TermKind()),
			Status:         string(sub.Status()),
			IsActive:       sub.IsActive(),
			PointGrant:     sub.PointGrant().Value(),
			StartDate:      sub.StartDate(),
			EndDate:        sub.EndDate(),
			ElapsedMonths:  sub.ElapsedMonths(),
		})
	}
	return views, nil
}

// Plans 方案目錄
func (s *Scheduler) Plans() ([]PlanView, error) {
	plans, err := s.plans.List(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	views := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, PlanView{
			Code:            p.Code(),
			Name:            p.Name(),
			AmountDue:       p.AmountDue(),
			PointGrant:      p.PointGrantPerCycle().Value(),
			TermKind:        string(p.TermKind()),
			FixedTermMonths: p.FixedTermMonths(),
		})
	}
	return views, nil
}

// SeedPlans 以代碼為鍵寫入方案目錄（在同一交易中）
func (s *Scheduler) SeedPlans(plans []*subscription.Plan) error {
	return s.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		for _, p := range plans {
			if err := s.plans.Upsert(ctx, p); err != nil {
				return fmt.Errorf("failed to upsert plan %s: %w", p.Code(), err)
			}
		}
		return nil
	})
}
