package persistence

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"gorm.io/gorm"
)

// GORMCartRepository 購物車倉儲
type GORMCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 創建購物車倉儲
func NewCartRepository(db *gorm.DB) goods.CartRepository {
	return &GORMCartRepository{db: db}
}

// FindByMemberID 依加入順序讀取；沒有明細時返回空車
func (r *GORMCartRepository) FindByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) (*goods.Cart, error) {
	var models []CartItemModel
	result := dbFrom(ctx, r.db).
		Where("member_id = ?", memberID.String()).
		Order("position").
		Find(&models)
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	lines := make([]goods.CartLine, 0, len(models))
	for _, m := range models {
		goodID, err := goods.GoodIDFromString(m.GoodID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, goods.CartLine{GoodID: goodID, Quantity: m.Quantity})
	}
	return goods.ReconstructCart(memberID, lines), nil
}

// Save 刪除該會員全部明細後重新寫入
func (r *GORMCartRepository) Save(ctx shared.TransactionContext, cart *goods.Cart) error {
	db := dbFrom(ctx, r.db)
	memberID := cart.MemberID().String()

	if err := db.Where("member_id = ?", memberID).Delete(&CartItemModel{}).Error; err != nil {
		return mapError(err, nil, nil)
	}

	lines := cart.Lines()
	if len(lines) == 0 {
		return nil
	}
	now := time.Now()
	models := make([]CartItemModel, 0, len(lines))
	for i, l := range lines {
		models = append(models, CartItemModel{
			MemberID:  memberID,
			GoodID:    l.GoodID.String(),
			Quantity:  l.Quantity,
			Position:  i,
			UpdatedAt: now,
		})
	}
	return mapError(db.Create(&models).Error, nil, nil)
}
