package goods

import (
	"strings"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// RedeemableGood 可兌換商品
// ===========================

// RedeemableGood 以積分兌換的商品
//
// 不變條件：
// - pointCost > 0
// - stock >= 0，扣減前檢查
type RedeemableGood struct {
	goodID    GoodID
	name      string
	pointCost int
	stock     int
	updatedAt time.Time
}

// NewRedeemableGood 建立商品（目錄管理與測試使用）
func NewRedeemableGood(name string, pointCost, stock int) (*RedeemableGood, error) {
	return ReconstructRedeemableGood(NewGoodID(), name, pointCost, stock, time.Now())
}

// ReconstructRedeemableGood 從持久化資料重建
func ReconstructRedeemableGood(goodID GoodID, name string, pointCost, stock int, updatedAt time.Time) (*RedeemableGood, error) {
	if goodID.IsEmpty() {
		return nil, ErrInvalidGoodID.WithContext("reason", "goodID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidGood.WithContext("good_id", goodID.String(), "reason", "name is required")
	}
	if pointCost <= 0 {
		return nil, ErrInvalidGood.WithContext("good_id", goodID.String(), "point_cost", pointCost)
	}
	if stock < 0 {
		return nil, ErrInvalidGood.WithContext("good_id", goodID.String(), "stock", stock)
	}
	return &RedeemableGood{
		goodID:    goodID,
		name:      name,
		pointCost: pointCost,
		stock:     stock,
		updatedAt: updatedAt,
	}, nil
}

// GoodID 商品 ID
func (g *RedeemableGood) GoodID() GoodID { return g.goodID }

// Name 商品名稱
func (g *RedeemableGood) Name() string { return g.name }

// PointCost 單價（積分）
func (g *RedeemableGood) PointCost() int { return g.pointCost }

// Stock 庫存
func (g *RedeemableGood) Stock() int { return g.stock }

// UpdatedAt 最後更新時間
func (g *RedeemableGood) UpdatedAt() time.Time { return g.updatedAt }

// LineCost quantity 件的總積分；數量超出 1..MaxLineQuantity 或溢位時返回 ErrInvalidQuantity
func (g *RedeemableGood) LineCost(quantity int) (wallet.PointsAmount, error) {
	cost, err := mulCost(g.goodID, g.pointCost, quantity)
	if err != nil {
		return wallet.PointsAmount{}, err
	}
	return wallet.NewPointsAmount(cost)
}

// HasStock 庫存是否足夠
func (g *RedeemableGood) HasStock(quantity int) bool {
	return g.stock >= quantity
}

// DecreaseStock 扣減庫存；不足時返回 ErrInsufficientStock，庫存不變
func (g *RedeemableGood) DecreaseStock(quantity int) error {
	if err := checkLineQuantity(g.goodID, quantity); err != nil {
		return err
	}
	if !g.HasStock(quantity) {
		return g.insufficientStock(quantity)
	}
	g.stock -= quantity
	g.updatedAt = time.Now()
	return nil
}

// RestoreStock 取消訂單時歸還庫存
func (g *RedeemableGood) RestoreStock(quantity int) error {
	if err := checkLineQuantity(g.goodID, quantity); err != nil {
		return err
	}
	g.stock += quantity
	g.updatedAt = time.Now()
	return nil
}

func (g *RedeemableGood) insufficientStock(quantity int) error {
	return ErrInsufficientStock.WithContext(
		"good_id", g.goodID.String(),
		"good_name", g.name,
		"requested", quantity,
		"available", g.stock,
	)
}
