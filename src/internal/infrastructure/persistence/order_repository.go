package persistence

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GORMOrderRepository 兌換訂單倉儲
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 創建訂單倉儲
func NewOrderRepository(db *gorm.DB) goods.OrderRepository {
	return &GORMOrderRepository{db: db}
}

// Save 新增訂單與明細（GORM 會一併寫入 Lines）
func (r *GORMOrderRepository) Save(ctx shared.TransactionContext, order *goods.Order) error {
	return mapError(dbFrom(ctx, r.db).Create(orderToGORM(order)).Error, nil, nil)
}

// FindByID 查詢訂單
func (r *GORMOrderRepository) FindByID(ctx shared.TransactionContext, orderID goods.OrderID) (*goods.Order, error) {
	var model OrderModel
	result := dbFrom(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", orderID.String()).
		First(&model)
	if result.Error != nil {
		return nil, mapError(result.Error, goods.ErrOrderNotFound.WithContext("order_id", orderID.String()), nil)
	}
	return orderToDomain(&model)
}

// UpdateStatus 條件更新：WHERE status = from
func (r *GORMOrderRepository) UpdateStatus(ctx shared.TransactionContext, order *goods.Order, from goods.OrderStatus) error {
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Where("id = ? AND status = ?", order.OrderID().String(), string(from)).
		Updates(map[string]interface{}{
			"status":     string(order.Status()),
			"updated_at": order.UpdatedAt(),
		})
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidState.WithContext(
			"order_id", order.OrderID().String(),
			"expected_status", string(from),
		)
	}
	return nil
}

// ListByMemberID 依下單時間新到舊
func (r *GORMOrderRepository) ListByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) ([]*goods.Order, error) {
	var models []OrderModel
	result := dbFrom(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("member_id = ?", memberID.String()).
		Order("created_at DESC").Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	orders := make([]*goods.Order, 0, len(models))
	for i := range models {
		o, err := orderToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ===========================
// Mapper
// ===========================

func orderToGORM(o *goods.Order) *OrderModel {
	lines := make([]OrderLineModel, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineModel{
			OrderID:       o.OrderID().String(),
			GoodID:        l.GoodID.String(),
			GoodName:      l.GoodName,
			Quantity:      l.Quantity,
			UnitPointCost: l.UnitPointCost,
		})
	}
	return &OrderModel{
		ID:             o.OrderID().String(),
		MemberID:       o.MemberID().String(),
		TotalPointCost: o.TotalPointCost().Value(),
		Status:         string(o.Status()),
		Shipping:       datatypes.NewJSONType(o.Shipping()),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
		Lines:          lines,
	}
}

func orderToDomain(model *OrderModel) (*goods.Order, error) {
	orderID, err := goods.OrderIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	memberID, err := wallet.MemberIDFromString(model.MemberID)
	if err != nil {
		return nil, err
	}
	status, err := goods.ParseOrderStatus(model.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]goods.OrderLine, 0, len(model.Lines))
	for _, l := range model.Lines {
		goodID, err := goods.GoodIDFromString(l.GoodID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, goods.OrderLine{
			GoodID:        goodID,
			GoodName:      l.GoodName,
			Quantity:      l.Quantity,
			UnitPointCost: l.UnitPointCost,
		})
	}

	return goods.ReconstructOrder(
		orderID,
		memberID,
		lines,
		model.TotalPointCost,
		model.Shipping.Data(),
		status,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
