package subscribe

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// 每日發放的結果標籤
const (
	CycleResultOK      = "ok"
	CycleResultPartial = "partial"
	CycleResultFailed  = "failed"
)

// errNotDue 鎖內重新讀取時訂閱已不需要處理
var errNotDue = errors.New("subscription no longer due")

// GrantReport 一次每日發放的統計
type GrantReport struct {
	Date time.Time
	// Granted 發放的期數（追補多期時每期各算一次）
	Granted       int
	PointsGranted int
	// Skipped 列出時到期、處理時已被其他執行處理或已取消，或每期積分為 0
	Skipped int
	Expired int
	Failed  int
}

// RunDailyGrantCycle 為到期的月額訂閱發放積分並推進一個月，並讓過期的固定期間訂閱失效
//
// 冪等：每一期都是「以讀到的 end_date 為條件」的更新與入帳在同一交易提交，
// 同一天重跑時條件不再成立，不會重複發放。錯過的日子在下一次執行時逐期追補。
//
// 單筆失敗不中斷其他訂閱；所有失敗以 errors.Join 返回，report 仍然有效。
func (s *Scheduler) RunDailyGrantCycle(today time.Time) (*GrantReport, error) {
	started := time.Now()
	day := shared.DateOf(today)
	report := &GrantReport{Date: day}
	var errs []error

	due, err := s.subscriptions.ListDueForRenewal(nil, day)
	if err != nil {
		s.observe(CycleResultFailed, started)
		return report, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	for _, sub := range due {
		if sub.PointGrant().IsZero() {
			// 沒有積分可發的訂閱不入帳也不推進到期日
			report.Skipped++
			s.logger.Warn("grant skipped: zero point grant",
				"subscription_id", sub.SubscriptionID().String(),
				"plan_code", sub.PlanCode())
			continue
		}
		periods, err := s.renewUntilCurrent(sub, day)
		report.Granted += periods
		report.PointsGranted += periods * sub.PointGrant().Value()
		switch {
		case err != nil:
			report.Failed++
			errs = append(errs, err)
			s.logger.Error("grant failed",
				"subscription_id", sub.SubscriptionID().String(),
				"member_id", sub.MemberID().String(),
				"error", err)
		case periods == 0:
			report.Skipped++
		}
	}

	expiring, err := s.subscriptions.ListDueForExpiry(nil, day)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to list expiring subscriptions: %w", err))
	}
	for _, sub := range expiring {
		expired, err := s.expire(sub.SubscriptionID(), day)
		switch {
		case err != nil:
			report.Failed++
			errs = append(errs, err)
			s.logger.Error("expire failed", "subscription_id", sub.SubscriptionID().String(), "error", err)
		case expired:
			report.Expired++
		default:
			report.Skipped++
		}
	}

	result := CycleResultOK
	if len(errs) > 0 {
		result = CycleResultPartial
		if report.Granted == 0 && report.Expired == 0 {
			result = CycleResultFailed
		}
	}
	s.observe(result, started)
	s.logger.Info("grant cycle finished",
		"date", day.Format(subscription.DateLayout),
		"granted", report.Granted,
		"points", report.PointsGranted,
		"skipped", report.Skipped,
		"expired", report.Expired,
		"failed", report.Failed,
		"duration", time.Since(started))

	return report, errors.Join(errs...)
}

// renewUntilCurrent 逐期續期直到 end_date > today，返回成功發放的期數
func (s *Scheduler) renewUntilCurrent(listed *subscription.Subscription, today time.Time) (int, error) {
	periods := 0
	for {
		stillDue, err := s.renewOnce(listed, today)
		if errors.Is(err, errNotDue) || errors.Is(err, subscription.ErrStaleSubscription) {
			return periods, nil
		}
		if err != nil {
			return periods, err
		}
		periods++
		if !stillDue {
			return periods, nil
		}
	}
}

// renewOnce 推進一期並入帳；返回推進後是否仍然到期
func (s *Scheduler) renewOnce(listed *subscription.Subscription, today time.Time) (bool, error) {
	id := listed.SubscriptionID()
	var renewed *subscription.Subscription

	_, err := s.exchange.GrantPoints(exchange.GrantPointsCommand{
		MemberID: listed.MemberID(),
		Amount:   listed.PointGrant().Value(),
		Source:   wallet.PointsSourceSubscriptionRenewal,
		SourceID: id.String(),
		AlsoLock: []string{subscription.LockKey(id)},
	}, func(ctx shared.TransactionContext) error {
		current, err := s.subscriptions.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find subscription: %w", err)
		}
		if !current.IsDueForRenewal(today) {
			return errNotDue
		}
		observedEnd := current.EndDate()
		if err := current.Renew(today); err != nil {
			return err
		}
		if err := s.subscriptions.UpdateIfUnchanged(ctx, current, subscription.StatusActive, observedEnd); err != nil {
			return err
		}
		renewed = current
		return nil
	})
	if err != nil {
		return false, err
	}

	s.store.Publish(renewed.PullEvents())
	return renewed.IsDueForRenewal(today), nil
}

// expire 固定期間訂閱到期失效；已被處理時返回 false
func (s *Scheduler) expire(id subscription.SubscriptionID, today time.Time) (bool, error) {
	var expired *subscription.Subscription
	err := s.txManager.InLockedTransaction([]string{subscription.LockKey(id)}, func(ctx shared.TransactionContext) error {
		current, err := s.subscriptions.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find subscription: %w", err)
		}
		if !current.IsDueForExpiry(today) {
			return errNotDue
		}
		observedEnd := current.EndDate()
		if err := current.Expire(today); err != nil {
			return err
		}
		if err := s.subscriptions.UpdateIfUnchanged(ctx, current, subscription.StatusActive, observedEnd); err != nil {
			return err
		}
		expired = current
		return nil
	})
	if errors.Is(err, errNotDue) || errors.Is(err, subscription.ErrStaleSubscription) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.store.Publish(expired.PullEvents())
	return true, nil
}

func (s *Scheduler) observe(result string, started time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveGrantCycle(result, time.Since(started))
}
