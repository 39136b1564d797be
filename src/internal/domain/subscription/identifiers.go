package subscription

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// SubscriptionMarker 是 SubscriptionID 的標記類型
type SubscriptionMarker struct{}

// SubscriptionID 訂閱 ID
type SubscriptionID = shared.EntityID[SubscriptionMarker]

// NewSubscriptionID 生成新的訂閱 ID
func NewSubscriptionID() SubscriptionID {
	return shared.NewEntityID[SubscriptionMarker]()
}

// SubscriptionIDFromString 從字串解析訂閱 ID
func SubscriptionIDFromString(s string) (SubscriptionID, error) {
	return shared.EntityIDFromString[SubscriptionMarker](s, ErrInvalidSubscriptionID)
}

// LockKey 訂閱的互斥鍵
//
// 每日發放與會員取消都持有這把鎖，兩者不會交錯。
func LockKey(id SubscriptionID) string {
	return "subscription:" + id.String()
}
