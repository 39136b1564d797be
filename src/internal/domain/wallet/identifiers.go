package wallet

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// WalletMarker 是 WalletID 的標記類型
type WalletMarker struct{}

// WalletID 錢包的唯一標識符
type WalletID = shared.EntityID[WalletMarker]

// NewWalletID 生成新的錢包 ID
func NewWalletID() WalletID {
	return shared.NewEntityID[WalletMarker]()
}

// WalletIDFromString 從字串解析錢包 ID
func WalletIDFromString(s string) (WalletID, error) {
	return shared.EntityIDFromString[WalletMarker](s, ErrInvalidWalletID)
}

// MemberMarker 是 MemberID 的標記類型
type MemberMarker struct{}

// MemberID 會員的唯一標識符（由認證層提供，本引擎只信任不驗證身分）
type MemberID = shared.EntityID[MemberMarker]

// NewMemberID 生成新的會員 ID
func NewMemberID() MemberID {
	return shared.NewEntityID[MemberMarker]()
}

// MemberIDFromString 從字串解析會員 ID
func MemberIDFromString(s string) (MemberID, error) {
	return shared.EntityIDFromString[MemberMarker](s, ErrInvalidMemberID)
}

// PurchaseMarker 是 PurchaseID 的標記類型
type PurchaseMarker struct{}

// PurchaseID 購買紀錄 ID
type PurchaseID = shared.EntityID[PurchaseMarker]

// NewPurchaseID 生成新的購買紀錄 ID
func NewPurchaseID() PurchaseID {
	return shared.NewEntityID[PurchaseMarker]()
}

// PurchaseIDFromString 從字串解析購買紀錄 ID
func PurchaseIDFromString(s string) (PurchaseID, error) {
	return shared.EntityIDFromString[PurchaseMarker](s, ErrInvalidPurchaseID)
}

// LockKey 錢包的互斥鍵
//
// 所有修改餘額的操作都必須持有這把鎖。
func LockKey(memberID MemberID) string {
	return "member:" + memberID.String()
}
