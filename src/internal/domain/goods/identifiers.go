package goods

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// GoodMarker 是 GoodID 的標記類型
type GoodMarker struct{}

// GoodID 可兌換商品 ID
type GoodID = shared.EntityID[GoodMarker]

// NewGoodID 生成新的商品 ID
func NewGoodID() GoodID {
	return shared.NewEntityID[GoodMarker]()
}

// GoodIDFromString 從字串解析商品 ID
func GoodIDFromString(s string) (GoodID, error) {
	return shared.EntityIDFromString[GoodMarker](s, ErrInvalidGoodID)
}

// OrderMarker 是 OrderID 的標記類型
type OrderMarker struct{}

// OrderID 兌換訂單 ID
type OrderID = shared.EntityID[OrderMarker]

// NewOrderID 生成新的訂單 ID
func NewOrderID() OrderID {
	return shared.NewEntityID[OrderMarker]()
}

// OrderIDFromString 從字串解析訂單 ID
func OrderIDFromString(s string) (OrderID, error) {
	return shared.EntityIDFromString[OrderMarker](s, ErrInvalidOrderID)
}

// LockKey 商品庫存的互斥鍵
func LockKey(goodID GoodID) string {
	return "good:" + goodID.String()
}
