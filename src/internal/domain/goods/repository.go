package goods

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// GoodRepository 商品倉儲介面
//
// 商品由目錄管理層建立；本引擎只修改 stock。
type GoodRepository interface {
	// Save 新增商品（目錄管理與測試使用）
	Save(ctx shared.TransactionContext, good *RedeemableGood) error

	// FindByID 查詢單一商品，不存在返回 ErrGoodNotFound
	FindByID(ctx shared.TransactionContext, goodID GoodID) (*RedeemableGood, error)

	// FindByIDsForUpdate 在事務中讀取並鎖定多個商品（依 ID 升冪），
	// 返回以 GoodID 字串為鍵的 map；不存在的 ID 不出現在結果中
	FindByIDsForUpdate(ctx shared.TransactionContext, goodIDs []GoodID) (map[string]*RedeemableGood, error)

	// UpdateStock 寫回庫存
	UpdateStock(ctx shared.TransactionContext, good *RedeemableGood) error

	// List 目錄瀏覽（唯讀）
	List(ctx shared.TransactionContext) ([]*RedeemableGood, error)
}

// OrderRepository 訂單倉儲介面
type OrderRepository interface {
	// Save 新增訂單與明細
	Save(ctx shared.TransactionContext, order *Order) error

	// FindByID 查詢訂單，不存在返回 ErrOrderNotFound
	FindByID(ctx shared.TransactionContext, orderID OrderID) (*Order, error)

	// UpdateStatus 以 from 為條件更新狀態；
	// 目前狀態已不是 from 時返回 shared.ErrInvalidState
	UpdateStatus(ctx shared.TransactionContext, order *Order, from OrderStatus) error

	// ListByMemberID 依下單時間新到舊
	ListByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) ([]*Order, error)
}

// CartRepository 購物車倉儲介面
type CartRepository interface {
	// FindByMemberID 查詢購物車；沒有任何明細時返回空車
	FindByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) (*Cart, error)

	// Save 以 cart 的內容取代該會員的全部明細
	Save(ctx shared.TransactionContext, cart *Cart) error
}
