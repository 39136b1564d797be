package persistence

import (
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ===========================
// GORM Model 定義
// ===========================

// WalletModel 錢包（每位會員一列）
type WalletModel struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey"`
	MemberID     string    `gorm:"column:member_id;type:varchar(36);uniqueIndex;not null"`
	CoinBalance  int       `gorm:"column:coin_balance;not null;default:0;check:coin_balance >= 0"`
	PointBalance int       `gorm:"column:point_balance;not null;default:0;check:point_balance >= 0"`
	Version      int       `gorm:"column:version;not null;default:0"` // 樂觀鎖
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (WalletModel) TableName() string { return "wallets" }

// PurchaseRecordModel 購幣紀錄（只新增）
type PurchaseRecordModel struct {
	ID           string          `gorm:"column:id;type:varchar(36);primaryKey"`
	MemberID     string          `gorm:"column:member_id;type:varchar(36);index;not null"`
	CoinsGranted int             `gorm:"column:coins_granted;not null"`
	PricePaid    decimal.Decimal `gorm:"column:price_paid;type:numeric(12,2);not null"`
	PaymentRef   *string         `gorm:"column:payment_ref;type:varchar(128);uniqueIndex"` // NULL 表示沒有外部編號
	PurchasedAt  time.Time       `gorm:"column:purchased_at;index;not null"`
}

// TableName 指定表名
func (PurchaseRecordModel) TableName() string { return "purchase_records" }

// AnimalScoreModel 動物應援分數
type AnimalScoreModel struct {
	AnimalID  string    `gorm:"column:animal_id;type:varchar(64);primaryKey"`
	Score     int       `gorm:"column:score;not null;default:0;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (AnimalScoreModel) TableName() string { return "animal_scores" }

// GoodModel 可兌換商品
type GoodModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	PointCost int       `gorm:"column:point_cost;not null;check:point_cost > 0"`
	Stock     int       `gorm:"column:stock;not null;default:0;check:stock >= 0"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (GoodModel) TableName() string { return "redeemable_goods" }

// OrderModel 兌換訂單
type OrderModel struct {
	ID             string                                   `gorm:"column:id;type:varchar(36);primaryKey"`
	MemberID       string                                   `gorm:"column:member_id;type:varchar(36);index;not null"`
	TotalPointCost int                                      `gorm:"column:total_point_cost;not null"`
	Status         string                                   `gorm:"column:status;type:varchar(16);index;not null"`
	Shipping       datatypes.JSONType[goods.ShippingAddress] `gorm:"column:shipping"`
	CreatedAt      time.Time                                `gorm:"column:created_at;index;not null"`
	UpdatedAt      time.Time                                `gorm:"column:updated_at;not null"`
	Lines          []OrderLineModel                         `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName 指定表名
func (OrderModel) TableName() string { return "orders" }

// OrderLineModel 訂單明細
type OrderLineModel struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID       string `gorm:"column:order_id;type:varchar(36);index;not null"`
	GoodID        string `gorm:"column:good_id;type:varchar(36);not null"`
	GoodName      string `gorm:"column:good_name;type:varchar(255);not null"`
	Quantity      int    `gorm:"column:quantity;not null;check:quantity > 0"`
	UnitPointCost int    `gorm:"column:unit_point_cost;not null"`
}

// TableName 指定表名
func (OrderLineModel) TableName() string { return "order_lines" }

// CartItemModel 購物車明細
type CartItemModel struct {
	MemberID  string    `gorm:"column:member_id;type:varchar(36);primaryKey"`
	GoodID    string    `gorm:"column:good_id;type:varchar(36);primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Position  int       `gorm:"column:position;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CartItemModel) TableName() string { return "cart_items" }

// PlanModel 訂閱方案目錄
type PlanModel struct {
	Code            string          `gorm:"column:code;type:varchar(32);primaryKey"`
	Name            string          `gorm:"column:name;type:varchar(255)"`
	AmountDue       decimal.Decimal `gorm:"column:amount_due;type:numeric(12,2);not null"`
	PointGrant      int             `gorm:"column:point_grant;not null"`
	TermKind        string          `gorm:"column:term_kind;type:varchar(16);not null"`
	FixedTermMonths int             `gorm:"column:fixed_term_months;not null;default:0"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (PlanModel) TableName() string { return "subscribe_plans" }

// SubscriptionModel 訂閱
//
// 起訖日以 YYYY-MM-DD 字串保存，字串比較即日期比較。
// 部分唯一索引保證同一會員與動物最多一筆 active。
type SubscriptionModel struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey"`
	MemberID      string    `gorm:"column:member_id;type:varchar(36);not null;index;uniqueIndex:idx_subscriptions_active_pair,where:status = 'active'"`
	AnimalID      string    `gorm:"column:animal_id;type:varchar(64);not null;uniqueIndex:idx_subscriptions_active_pair"`
	PlanCode      string    `gorm:"column:plan_code;type:varchar(32);not null"`
	TermKind      string    `gorm:"column:term_kind;type:varchar(16);not null"`
	PointGrant    int       `gorm:"column:point_grant;not null"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;index:idx_subscriptions_due,priority:1"`
	StartDate     string    `gorm:"column:start_date;type:varchar(10);not null"`
	EndDate       string    `gorm:"column:end_date;type:varchar(10);not null;index:idx_subscriptions_due,priority:2"`
	ElapsedMonths int       `gorm:"column:elapsed_months;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (SubscriptionModel) TableName() string { return "subscriptions" }

// allModels AutoMigrate 的完整清單
func allModels() []interface{} {
	return []interface{}{
		&WalletModel{},
		&PurchaseRecordModel{},
		&AnimalScoreModel{},
		&GoodModel{},
		&OrderModel{},
		&OrderLineModel{},
		&CartItemModel{},
		&PlanModel{},
		&SubscriptionModel{},
	}
}
