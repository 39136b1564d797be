package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// Status 訂閱狀態
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// ParseStatus 解析持久化的狀態字串
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusCancelled, StatusExpired:
		return Status(s), nil
	}
	return "", ErrCorruptedSubscription.WithContext("status", s)
}

// ===========================
// Subscription 聚合根
// ===========================

// Subscription 會員對某隻動物的訂閱
//
// 狀態機：
// - active → cancelled：僅月額方案，會員操作
// - active → expired：僅固定期間方案，到期日已過
//
// 起訖日為 UTC 午夜；elapsedMonths 在每次日期變動時重算。
type Subscription struct {
	subscriptionID SubscriptionID
	memberID       wallet.MemberID
	planCode       string
	animalID       string
	termKind       TermKind
	pointGrant     wallet.PointsAmount
	status         Status
	startDate      time.Time
	endDate        time.Time
	elapsedMonths  int
	createdAt      time.Time
	updatedAt      time.Time

	shared.EventRecorder
}

// Join 加入訂閱並計算到期日
//
// 第一期積分由 SubscriptionScheduler 在同一事務內發放。
func Join(memberID wallet.MemberID, plan *Plan, animalID string, start time.Time) (*Subscription, error) {
	if memberID.IsEmpty() {
		return nil, wallet.ErrInvalidMemberID.WithContext("reason", "memberID cannot be empty")
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidPlan.WithContext("reason", "target animal is required")
	}

	startDate := shared.DateOf(start)
	endDate := plan.EndDateFrom(startDate)
	now := time.Now()
	s := &Subscription{
		subscriptionID: NewSubscriptionID(),
		memberID:       memberID,
		planCode:       plan.Code(),
		animalID:       animalID,
		termKind:       plan.TermKind(),
		pointGrant:     plan.PointGrantPerCycle(),
		status:         StatusActive,
		startDate:      startDate,
		endDate:        endDate,
		elapsedMonths:  ElapsedMonths(startDate, endDate),
		createdAt:      now,
		updatedAt:      now,
	}
	s.Record(NewJoinedEvent(s, now))
	return s, nil
}

// ReconstructSubscription 從持久化資料重建
func ReconstructSubscription(
	subscriptionID SubscriptionID,
	memberID wallet.MemberID,
	planCode string,
	animalID string,
	termKind TermKind,
	pointGrant int,
	status Status,
	startDate time.Time,
	endDate time.Time,
	elapsedMonths int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Subscription, error) {
	grant, err := wallet.NewPointsAmount(pointGrant)
	if err != nil {
		return nil, ErrCorruptedSubscription.WithContext("subscription_id", subscriptionID.String(), "point_grant", pointGrant)
	}
	if endDate.Before(startDate) {
		return nil, ErrCorruptedSubscription.WithContext(
			"subscription_id", subscriptionID.String(),
			"start_date", startDate.Format(DateLayout),
			"end_date", endDate.Format(DateLayout),
		)
	}
	return &Subscription{
		subscriptionID: subscriptionID,
		memberID:       memberID,
		planCode:       planCode,
		animalID:       animalID,
		termKind:       termKind,
		pointGrant:     grant,
		status:         status,
		startDate:      shared.DateOf(startDate),
		endDate:        shared.DateOf(endDate),
		elapsedMonths:  elapsedMonths,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// DateLayout 起訖日的字串格式
const DateLayout = "2006-01-02"

// SubscriptionID 訂閱 ID
func (s *Subscription) SubscriptionID() SubscriptionID { return s.subscriptionID }

// MemberID 訂閱會員
func (s *Subscription) MemberID() wallet.MemberID { return s.memberID }

// PlanCode 方案代碼
func (s *Subscription) PlanCode() string { return s.planCode }

// AnimalID 訂閱對象
func (s *Subscription) AnimalID() string { return s.animalID }

// TermKind 加入時方案的期間類型
func (s *Subscription) TermKind() TermKind { return s.termKind }

// IsRecurring 是否為月額訂閱
func (s *Subscription) IsRecurring() bool { return s.termKind == TermRecurring }

// PointGrant 每期發放積分（加入時的方案快照）
func (s *Subscription) PointGrant() wallet.PointsAmount { return s.pointGrant }

// Status 目前狀態
func (s *Subscription) Status() Status { return s.status }

// IsActive 是否有效
func (s *Subscription) IsActive() bool { return s.status == StatusActive }

// StartDate 開始日
func (s *Subscription) StartDate() time.Time { return s.startDate }

// EndDate 本期到期日
func (s *Subscription) EndDate() time.Time { return s.endDate }

// ElapsedMonths 開始日到到期日的累計月數
func (s *Subscription) ElapsedMonths() int { return s.elapsedMonths }

// CreatedAt 建立時間
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt 最後更新時間
func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }

// IsDueForRenewal 月額訂閱且到期日 <= today
func (s *Subscription) IsDueForRenewal(today time.Time) bool {
	return s.IsActive() && s.IsRecurring() && !s.endDate.After(shared.DateOf(today))
}

// IsDueForExpiry 固定期間訂閱且到期日 < today
func (s *Subscription) IsDueForExpiry(today time.Time) bool {
	return s.IsActive() && !s.IsRecurring() && s.endDate.Before(shared.DateOf(today))
}

// Renew 推進一期：到期日 + 1 個月並重算 elapsedMonths
//
// 只處理一期；落後多期時由呼叫者重複呼叫直到 IsDueForRenewal 為 false。
func (s *Subscription) Renew(today time.Time) error {
	if !s.IsDueForRenewal(today) {
		return shared.ErrInvalidState.WithContext(
			"subscription_id", s.subscriptionID.String(),
			"status", string(s.status),
			"end_date", s.endDate.Format(DateLayout),
			"today", shared.DateOf(today).Format(DateLayout),
		)
	}
	previous := s.endDate
	s.setEndDate(AddMonths(s.endDate, 1))
	s.Record(NewRenewedEvent(s, previous, s.updatedAt))
	return nil
}

// Cancel 會員取消月額訂閱（不收回已發放積分）
func (s *Subscription) Cancel() error {
	if !s.IsActive() || !s.IsRecurring() {
		return shared.ErrInvalidState.WithContext(
			"subscription_id", s.subscriptionID.String(),
			"status", string(s.status),
			"term_kind", string(s.termKind),
		)
	}
	s.status = StatusCancelled
	s.updatedAt = time.Now()
	s.Record(NewStatusChangedEvent(EventTypeCancelled, s, s.updatedAt))
	return nil
}

// Expire 固定期間訂閱到期失效
func (s *Subscription) Expire(today time.Time) error {
	if !s.IsDueForExpiry(today) {
		return shared.ErrInvalidState.WithContext(
			"subscription_id", s.subscriptionID.String(),
			"status", string(s.status),
			"end_date", s.endDate.Format(DateLayout),
		)
	}
	s.status = StatusExpired
	s.updatedAt = time.Now()
	s.Record(NewStatusChangedEvent(EventTypeExpired, s, s.updatedAt))
	return nil
}

func (s *Subscription) setEndDate(end time.Time) {
	s.endDate = end
	s.elapsedMonths = ElapsedMonths(s.startDate, end)
	s.updatedAt = time.Now()
}

// String 方便日誌輸出
func (s *Subscription) String() string {
	return fmt.Sprintf("subscription(%s %s→%s %s %s)",
		s.subscriptionID.String(), s.planCode, s.animalID, s.status, s.endDate.Format(DateLayout))
}
