package persistence

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPlanRepository 訂閱方案目錄倉儲
type GORMPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 創建方案倉儲
func NewPlanRepository(db *gorm.DB) subscription.PlanRepository {
	return &GORMPlanRepository{db: db}
}

// FindByCode 依代碼查詢
func (r *GORMPlanRepository) FindByCode(ctx shared.TransactionContext, code string) (*subscription.Plan, error) {
	var model PlanModel
	result := dbFrom(ctx, r.db).Where("code = ?", code).First(&model)
	if result.Error != nil {
		return nil, mapError(result.Error, subscription.ErrPlanNotFound.WithContext("code", code), nil)
	}
	return planToDomain(&model)
}

// List 依代碼排序
func (r *GORMPlanRepository) List(ctx shared.TransactionContext) ([]*subscription.Plan, error) {
	var models []PlanModel
	if err := dbFrom(ctx, r.db).Order("code").Find(&models).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	plans := make([]*subscription.Plan, 0, len(models))
	for i := range models {
		p, err := planToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Upsert 以代碼為鍵新增或覆蓋
func (r *GORMPlanRepository) Upsert(ctx shared.TransactionContext, plan *subscription.Plan) error {
	model := &PlanModel{
		Code:            plan.Code(),
		Name:            plan.Name(),
		AmountDue:       plan.AmountDue(),
		PointGrant:      plan.PointGrantPerCycle().Value(),
		TermKind:        string(plan.TermKind()),
		FixedTermMonths: plan.FixedTermMonths(),
		UpdatedAt:       time.Now(),
	}
	result := dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "amount_due", "point_grant", "term_kind", "fixed_term_months", "updated_at"}),
	}).Create(model)
	return mapError(result.Error, nil, nil)
}

func planToDomain(model *PlanModel) (*subscription.Plan, error) {
	kind, err := subscription.ParseTermKind(model.TermKind)
	if err != nil {
		return nil, err
	}
	return subscription.NewPlan(model.Code, model.Name, model.AmountDue, model.PointGrant, kind, model.FixedTermMonths)
}

// ===========================
// CachedPlanRepository
// ===========================

// CachedPlanRepository 以 LRU 快取 FindByCode
//
// 方案是不可變目錄資料；Upsert 經過這裡時會移除對應快取。
type CachedPlanRepository struct {
	inner subscription.PlanRepository
	cache *lru.Cache[string, *subscription.Plan]
}

// NewCachedPlanRepository size <= 0 時使用 64
func NewCachedPlanRepository(inner subscription.PlanRepository, size int) (*CachedPlanRepository, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, *subscription.Plan](size)
	if err != nil {
		return nil, err
	}
	return &CachedPlanRepository{inner: inner, cache: cache}, nil
}

// FindByCode 先查快取
func (r *CachedPlanRepository) FindByCode(ctx shared.TransactionContext, code string) (*subscription.Plan, error) {
	if plan, ok := r.cache.Get(code); ok {
		return plan, nil
	}
	plan, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	r.cache.Add(code, plan)
	return plan, nil
}

// List 不快取
func (r *CachedPlanRepository) List(ctx shared.TransactionContext) ([]*subscription.Plan, error) {
	return r.inner.List(ctx)
}

// Upsert 寫入後移除快取
func (r *CachedPlanRepository) Upsert(ctx shared.TransactionContext, plan *subscription.Plan) error {
	if err := r.inner.Upsert(ctx, plan); err != nil {
		return err
	}
	r.cache.Remove(plan.Code())
	return nil
}
