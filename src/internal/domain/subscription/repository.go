package subscription

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// PlanRepository 方案目錄倉儲介面（本引擎只讀，Upsert 供 seed 使用）
type PlanRepository interface {
	// FindByCode 不存在時返回 ErrPlanNotFound
	FindByCode(ctx shared.TransactionContext, code string) (*Plan, error)

	// List 依代碼排序
	List(ctx shared.TransactionContext) ([]*Plan, error)

	// Upsert 以代碼為鍵新增或覆蓋
	Upsert(ctx shared.TransactionContext, plan *Plan) error
}

// SubscriptionRepository 訂閱倉儲介面
type SubscriptionRepository interface {
	// Save 新增訂閱
	// 錯誤：ErrDuplicateActiveSubscription（同一會員與動物已有 active 訂閱）
	Save(ctx shared.TransactionContext, s *Subscription) error

	// FindByID 不存在時返回 ErrSubscriptionNotFound
	FindByID(ctx shared.TransactionContext, id SubscriptionID) (*Subscription, error)

	// FindByIDForUpdate 在事務中讀取並鎖定
	FindByIDForUpdate(ctx shared.TransactionContext, id SubscriptionID) (*Subscription, error)

	// FindActive 同一會員與動物的 active 訂閱，不存在時返回 (nil, nil)
	FindActive(ctx shared.TransactionContext, memberID wallet.MemberID, animalID string) (*Subscription, error)

	// ListByMemberID 依開始日新到舊
	ListByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) ([]*Subscription, error)

	// ListDueForRenewal active、月額、end_date <= today
	ListDueForRenewal(ctx shared.TransactionContext, today time.Time) ([]*Subscription, error)

	// ListDueForExpiry active、固定期間、end_date < today
	ListDueForExpiry(ctx shared.TransactionContext, today time.Time) ([]*Subscription, error)

	// UpdateIfUnchanged 以讀取時的 (status, end_date) 為條件寫回；
	// 沒有命中任何列時返回 ErrStaleSubscription
	UpdateIfUnchanged(ctx shared.TransactionContext, s *Subscription, observedStatus Status, observedEndDate time.Time) error
}
