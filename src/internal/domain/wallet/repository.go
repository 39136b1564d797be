package wallet

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// WalletRepository 錢包倉儲介面
//
// 事務使用範例：
//   txManager.InLockedTransaction([]string{wallet.LockKey(memberID)}, func(ctx shared.TransactionContext) error {
//       w, _ := repo.FindByMemberIDForUpdate(ctx, memberID)
//       _ = w.Cheer(cost, reward, animalID)
//       return repo.Update(ctx, w)
//   })
type WalletRepository interface {
	// Save 保存新錢包
	// 錯誤：ErrWalletAlreadyExists（MemberID 已有錢包）
	Save(ctx shared.TransactionContext, w *Wallet) error

	// CreateIfAbsent 該會員沒有錢包時寫入 w；已存在（含其他程序剛提交的）時不寫入
	// 返回：是否由本次寫入
	CreateIfAbsent(ctx shared.TransactionContext, w *Wallet) (bool, error)

	// FindByMemberID 依會員查詢（唯讀，ctx 可為 nil）
	// 返回：錢包，或 ErrWalletNotFound
	FindByMemberID(ctx shared.TransactionContext, memberID MemberID) (*Wallet, error)

	// FindByMemberIDForUpdate 在事務中讀取並鎖定該列
	FindByMemberIDForUpdate(ctx shared.TransactionContext, memberID MemberID) (*Wallet, error)

	// Update 寫回餘額
	// 以讀取時的版本號作為條件；版本不符代表並發修改，返回 shared.ErrStorage
	Update(ctx shared.TransactionContext, w *Wallet) error
}

// PurchaseRecordRepository 購幣紀錄倉儲介面（只新增）
type PurchaseRecordRepository interface {
	// Append 新增紀錄
	// 錯誤：ErrDuplicatePayment（PaymentRef 已存在）
	Append(ctx shared.TransactionContext, record *PurchaseRecord) error

	// FindByPaymentRef 依付款確認編號查詢，不存在時返回 (nil, nil)
	FindByPaymentRef(ctx shared.TransactionContext, paymentRef string) (*PurchaseRecord, error)

	// ListByMemberID 依購買時間新到舊
	ListByMemberID(ctx shared.TransactionContext, memberID MemberID) ([]*PurchaseRecord, error)
}
