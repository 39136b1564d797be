package subscription

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// 事件類型
const (
	EventTypeJoined    = "subscription.joined"
	EventTypeRenewed   = "subscription.renewed"
	EventTypeCancelled = "subscription.cancelled"
	EventTypeExpired   = "subscription.expired"
)

// JoinedEvent 加入訂閱
type JoinedEvent struct {
	shared.BaseEvent
	MemberID      wallet.MemberID
	PlanCode      string
	AnimalID      string
	EndDate       time.Time
	PointsGranted wallet.PointsAmount
}

// NewJoinedEvent 建立加入事件
func NewJoinedEvent(s *Subscription, at time.Time) *JoinedEvent {
	return &JoinedEvent{
		BaseEvent:     shared.NewBaseEvent(EventTypeJoined, s.subscriptionID.String(), at),
		MemberID:      s.memberID,
		PlanCode:      s.planCode,
		AnimalID:      s.animalID,
		EndDate:       s.endDate,
		PointsGranted: s.pointGrant,
	}
}

// RenewedEvent 月額續期（同時發放一期積分）
type RenewedEvent struct {
	shared.BaseEvent
	MemberID        wallet.MemberID
	PlanCode        string
	PreviousEndDate time.Time
	EndDate         time.Time
	PointsGranted   wallet.PointsAmount
}

// NewRenewedEvent 建立續期事件
func NewRenewedEvent(s *Subscription, previous time.Time, at time.Time) *RenewedEvent {
	return &RenewedEvent{
		BaseEvent:       shared.NewBaseEvent(EventTypeRenewed, s.subscriptionID.String(), at),
		MemberID:        s.memberID,
		PlanCode:        s.planCode,
		PreviousEndDate: previous,
		EndDate:         s.endDate,
		PointsGranted:   s.pointGrant,
	}
}

// StatusChangedEvent 取消或到期
type StatusChangedEvent struct {
	shared.BaseEvent
	MemberID wallet.MemberID
	PlanCode string
	AnimalID string
	Status   Status
}

// NewStatusChangedEvent 建立狀態變更事件
func NewStatusChangedEvent(eventType string, s *Subscription, at time.Time) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent: shared.NewBaseEvent(eventType, s.subscriptionID.String(), at),
		MemberID:  s.memberID,
		PlanCode:  s.planCode,
		AnimalID:  s.animalID,
		Status:    s.status,
	}
}
