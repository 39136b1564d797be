package persistence

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMGoodRepository 可兌換商品倉儲
type GORMGoodRepository struct {
	db *gorm.DB
}

// NewGoodRepository 創建商品倉儲
func NewGoodRepository(db *gorm.DB) goods.GoodRepository {
	return &GORMGoodRepository{db: db}
}

// Save 新增商品
func (r *GORMGoodRepository) Save(ctx shared.TransactionContext, good *goods.RedeemableGood) error {
	model := &GoodModel{
		ID:        good.GoodID().String(),
		Name:      good.Name(),
		PointCost: good.PointCost(),
		Stock:     good.Stock(),
		UpdatedAt: good.UpdatedAt(),
	}
	return mapError(dbFrom(ctx, r.db).Create(model).Error, nil, nil)
}

// FindByID 查詢單一商品
func (r *GORMGoodRepository) FindByID(ctx shared.TransactionContext, goodID goods.GoodID) (*goods.RedeemableGood, error) {
	var model GoodModel
	result := dbFrom(ctx, r.db).Where("id = ?", goodID.String()).First(&model)
	if result.Error != nil {
		return nil, mapError(result.Error, goods.ErrGoodNotFound.WithContext("good_id", goodID.String()), nil)
	}
	return goodToDomain(&model)
}

// FindByIDsForUpdate 依 ID 升冪讀取並鎖定
func (r *GORMGoodRepository) FindByIDsForUpdate(ctx shared.TransactionContext, goodIDs []goods.GoodID) (map[string]*goods.RedeemableGood, error) {
	ids := make([]string, 0, len(goodIDs))
	for _, id := range goodIDs {
		ids = append(ids, id.String())
	}

	var models []GoodModel
	result := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	out := make(map[string]*goods.RedeemableGood, len(models))
	for i := range models {
		g, err := goodToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out[g.GoodID().String()] = g
	}
	return out, nil
}

// UpdateStock 寫回庫存
func (r *GORMGoodRepository) UpdateStock(ctx shared.TransactionContext, good *goods.RedeemableGood) error {
	result := dbFrom(ctx, r.db).Model(&GoodModel{}).
		Where("id = ?", good.GoodID().String()).
		Updates(map[string]interface{}{
			"stock":      good.Stock(),
			"updated_at": good.UpdatedAt(),
		})
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return goods.ErrGoodNotFound.WithContext("good_id", good.GoodID().String())
	}
	return nil
}

// List 依名稱排序
func (r *GORMGoodRepository) List(ctx shared.TransactionContext) ([]*goods.RedeemableGood, error) {
	var models []GoodModel
	if err := dbFrom(ctx, r.db).Order("name").Order("id").Find(&models).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	out := make([]*goods.RedeemableGood, 0, len(models))
	for i := range models {
		g, err := goodToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func goodToDomain(model *GoodModel) (*goods.RedeemableGood, error) {
	id, err := goods.GoodIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	return goods.ReconstructRedeemableGood(id, model.Name, model.PointCost, model.Stock, model.UpdatedAt)
}
