package persistence

import (
	"errors"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSubscriptionRepository 訂閱倉儲
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 創建訂閱倉儲
func NewSubscriptionRepository(db *gorm.DB) subscription.SubscriptionRepository {
	return &GORMSubscriptionRepository{db: db}
}

// Save 新增訂閱；部分唯一索引衝突時返回 ErrDuplicateActiveSubscription
func (r *GORMSubscriptionRepository) Save(ctx shared.TransactionContext, s *subscription.Subscription) error {
	result := dbFrom(ctx, r.db).Create(subscriptionToGORM(s))
	return mapError(result.Error, nil, subscription.ErrDuplicateActiveSubscription)
}

// FindByID 查詢訂閱
func (r *GORMSubscriptionRepository) FindByID(ctx shared.TransactionContext, id subscription.SubscriptionID) (*subscription.Subscription, error) {
	return r.findOne(dbFrom(ctx, r.db), id)
}

// FindByIDForUpdate 在事務中讀取並鎖定
func (r *GORMSubscriptionRepository) FindByIDForUpdate(ctx shared.TransactionContext, id subscription.SubscriptionID) (*subscription.Subscription, error) {
	return r.findOne(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GORMSubscriptionRepository) findOne(db *gorm.DB, id subscription.SubscriptionID) (*subscription.Subscription, error) {
	var model SubscriptionModel
	result := db.Where("id = ?", id.String()).First(&model)
	if result.Error != nil {
		return nil, mapError(result.Error, subscription.ErrSubscriptionNotFound.WithContext("subscription_id", id.String()), nil)
	}
	return subscriptionToDomain(&model)
}

// FindActive 同一會員與動物的 active 訂閱，不存在時返回 (nil, nil)
func (r *GORMSubscriptionRepository) FindActive(ctx shared.TransactionContext, memberID wallet.MemberID, animalID string) (*subscription.Subscription, error) {
	var model SubscriptionModel
	result := dbFrom(ctx, r.db).
		Where("member_id = ? AND animal_id = ? AND status = ?", memberID.String(), animalID, string(subscription.StatusActive)).
		First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}
	return subscriptionToDomain(&model)
}

// ListByMemberID 依開始日新到舊
func (r *GORMSubscriptionRepository) ListByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) ([]*subscription.Subscription, error) {
	return r.list(dbFrom(ctx, r.db).
		Where("member_id = ?", memberID.String()).
		Order("start_date DESC").Order("created_at DESC"))
}

// ListDueForRenewal active、月額、end_date <= today
func (r *GORMSubscriptionRepository) ListDueForRenewal(ctx shared.TransactionContext, today time.Time) ([]*subscription.Subscription, error) {
	return r.list(dbFrom(ctx, r.db).
		Where("status = ? AND term_kind = ? AND end_date <= ?",
			string(subscription.StatusActive), string(subscription.TermRecurring), formatDate(today)).
		Order("end_date").Order("id"))
}

// ListDueForExpiry active、固定期間、end_date < today
func (r *GORMSubscriptionRepository) ListDueForExpiry(ctx shared.TransactionContext, today time.Time) ([]*subscription.Subscription, error) {
	return r.list(dbFrom(ctx, r.db).
		Where("status = ? AND term_kind = ? AND end_date < ?",
			string(subscription.StatusActive), string(subscription.TermFixed), formatDate(today)).
		Order("end_date").Order("id"))
}

func (r *GORMSubscriptionRepository) list(query *gorm.DB) ([]*subscription.Subscription, error) {
	var models []SubscriptionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	out := make([]*subscription.Subscription, 0, len(models))
	for i := range models {
		s, err := subscriptionToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// UpdateIfUnchanged 以讀取時的 (status, end_date) 為條件寫回
//
// 同一天重複執行發放時，第二次的條件不再成立，RowsAffected 為 0。
func (r *GORMSubscriptionRepository) UpdateIfUnchanged(
	ctx shared.TransactionContext,
	s *subscription.Subscription,
	observedStatus subscription.Status,
	observedEndDate time.Time,
) error {
	result := dbFrom(ctx, r.db).Model(&SubscriptionModel{}).
		Where("id = ? AND status = ? AND end_date = ?",
			s.SubscriptionID().String(), string(observedStatus), formatDate(observedEndDate)).
		Updates(map[string]interface{}{
			"status":         string(s.Status()),
			"end_date":       formatDate(s.EndDate()),
			"elapsed_months": s.ElapsedMonths(),
			"updated_at":     s.UpdatedAt(),
		})
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrStaleSubscription.WithContext(
			"subscription_id", s.SubscriptionID().String(),
			"observed_status", string(observedStatus),
			"observed_end_date", formatDate(observedEndDate),
		)
	}
	return nil
}

// ===========================
// Mapper
// ===========================

func formatDate(t time.Time) string {
	return shared.DateOf(t).Format(subscription.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(subscription.DateLayout, s, time.UTC)
}

func subscriptionToGORM(s *subscription.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		ID:            s.SubscriptionID().String(),
		MemberID:      s.MemberID().String(),
		AnimalID:      s.AnimalID(),
		PlanCode:      s.PlanCode(),
		TermKind:      string(s.TermKind()),
		PointGrant:    s.PointGrant().Value(),
		Status:        string(s.Status()),
		StartDate:     formatDate(s.StartDate()),
		EndDate:       formatDate(s.EndDate()),
		ElapsedMonths: s.ElapsedMonths(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

func subscriptionToDomain(model *SubscriptionModel) (*subscription.Subscription, error) {
	id, err := subscription.SubscriptionIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	memberID, err := wallet.MemberIDFromString(model.MemberID)
	if err != nil {
		return nil, err
	}
	kind, err := subscription.ParseTermKind(model.TermKind)
	if err != nil {
		return nil, subscription.ErrCorruptedSubscription.WithContext("subscription_id", model.ID, "term_kind", model.TermKind)
	}
	status, err := subscription.ParseStatus(model.Status)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(model.StartDate)
	if err != nil {
		return nil, subscription.ErrCorruptedSubscription.WithContext("subscription_id", model.ID, "start_date", model.StartDate)
	}
	end, err := parseDate(model.EndDate)
	if err != nil {
		return nil, subscription.ErrCorruptedSubscription.WithContext("subscription_id", model.ID, "end_date", model.EndDate)
	}

	return subscription.ReconstructSubscription(
		id,
		memberID,
		model.PlanCode,
		model.AnimalID,
		kind,
		model.PointGrant,
		status,
		start,
		end,
		model.ElapsedMonths,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
