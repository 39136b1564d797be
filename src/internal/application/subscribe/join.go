package subscribe

import (
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// Join Use Case
// ===========================

// JoinCommand 加入訂閱
type JoinCommand struct {
	MemberID string
	PlanCode string
	AnimalID string
}

// JoinResult 加入結果
type JoinResult struct {
	SubscriptionID string
	StartDate      time.Time
	EndDate        time.Time
	GrantedPoints  int
	Balance        wallet.Balance
}

// Join 建立訂閱並立即發放第一期積分，兩者同一交易提交
//
// 錯誤處理：
// - ErrPlanNotFound: 方案代碼不存在
// - ErrDuplicateActiveSubscription: 同一會員與動物已有 active 訂閱
func (s *Scheduler) Join(cmd JoinCommand) (*JoinResult, error) {
	memberID, err := wallet.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	animalID, err := animal.ValidateAnimalID(cmd.AnimalID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate animal ID: %w", err)
	}
	plan, err := s.plans.FindByCode(nil, cmd.PlanCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	sub, err := subscription.Join(memberID, plan, animalID, shared.Today(s.clock))
	if err != nil {
		return nil, err
	}

	bal, err := s.exchange.GrantPoints(exchange.GrantPointsCommand{
		MemberID: memberID,
		Amount:   sub.PointGrant().Value(),
		Source:   wallet.PointsSourceSubscriptionJoin,
		SourceID: sub.SubscriptionID().String(),
	}, func(ctx shared.TransactionContext) error {
		existing, err := s.subscriptions.FindActive(ctx, memberID, animalID)
		if err != nil {
			return fmt.Errorf("failed to find active subscription: %w", err)
		}
		if existing != nil {
			return subscription.ErrDuplicateActiveSubscription.WithContext(
				"member_id", memberID.String(),
				"animal_id", animalID,
				"subscription_id", existing.SubscriptionID().String(),
			)
		}
		return s.subscriptions.Save(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.store.Publish(sub.PullEvents())
	return &JoinResult{
		SubscriptionID: sub.SubscriptionID().String(),
		StartDate:      sub.StartDate(),
		EndDate:        sub.EndDate(),
		GrantedPoints:  sub.PointGrant().Value(),
		Balance:        bal,
	}, nil
}

// ===========================
// Cancel Use Case
// ===========================

// CancelCommand 取消訂閱
//
// MemberID 非空時只允許訂閱擁有者取消。
type CancelCommand struct {
	SubscriptionID string
	MemberID       string
}

// Cancel active 月額訂閱 → cancelled；不收回已發放積分
//
// 錯誤處理：
// - shared.ErrInvalidState: 固定期間方案，或訂閱已不是 active
// - ErrSubscriptionNotFound: 訂閱不存在或不屬於 MemberID
func (s *Scheduler) Cancel(cmd CancelCommand) error {
	id, err := subscription.SubscriptionIDFromString(cmd.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to parse subscription ID: %w", err)
	}
	var owner wallet.MemberID
	if cmd.MemberID != "" {
		if owner, err = wallet.MemberIDFromString(cmd.MemberID); err != nil {
			return fmt.Errorf("failed to parse member ID: %w", err)
		}
	}

	var cancelled *subscription.Subscription
	err = s.txManager.InLockedTransaction([]string{subscription.LockKey(id)}, func(ctx shared.TransactionContext) error {
		current, err := s.subscriptions.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find subscription: %w", err)
		}
		if !owner.IsEmpty() && !current.MemberID().Equals(owner) {
			return subscription.ErrSubscriptionNotFound.WithContext("subscription_id", id.String())
		}
		observedStatus, observedEnd := current.Status(), current.EndDate()
		if err := current.Cancel(); err != nil {
			return err
		}
		if err := s.subscriptions.UpdateIfUnchanged(ctx, current, observedStatus, observedEnd); err != nil {
			return err
		}
		cancelled = current
		return nil
	})
	if err != nil {
		return err
	}

	s.store.Publish(cancelled.PullEvents())
	return nil
}
