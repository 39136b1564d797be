package wallet

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// 錯誤代碼常量
const (
	ErrCodeNegativeAmount     shared.ErrorCode = "AMOUNT_NEGATIVE"
	ErrCodeInsufficientCoins  shared.ErrorCode = "COINS_INSUFFICIENT"
	ErrCodeInsufficientPoints shared.ErrorCode = "POINTS_INSUFFICIENT"
	ErrCodeInvalidPlan        shared.ErrorCode = "PLAN_INVALID"

	ErrCodeInvalidWalletID   shared.ErrorCode = "WALLET_ID_INVALID"
	ErrCodeInvalidMemberID   shared.ErrorCode = "MEMBER_ID_INVALID"
	ErrCodeInvalidPurchaseID shared.ErrorCode = "PURCHASE_ID_INVALID"

	ErrCodeWalletNotFound      shared.ErrorCode = "WALLET_NOT_FOUND"
	ErrCodeWalletAlreadyExists shared.ErrorCode = "WALLET_ALREADY_EXISTS"
	ErrCodeCorruptedWallet     shared.ErrorCode = "WALLET_CORRUPTED"
	ErrCodeDuplicatePayment    shared.ErrorCode = "PAYMENT_DUPLICATE"
)

// 數量相關錯誤
var (
	ErrNegativeAmount = &shared.DomainError{
		Code:    ErrCodeNegativeAmount,
		Message: "數量不能為負數",
	}

	ErrInsufficientCoins = &shared.DomainError{
		Code:    ErrCodeInsufficientCoins,
		Message: "應援幣餘額不足",
	}

	ErrInsufficientPoints = &shared.DomainError{
		Code:    ErrCodeInsufficientPoints,
		Message: "積分餘額不足",
	}

	ErrInvalidPlan = &shared.DomainError{
		Code:    ErrCodeInvalidPlan,
		Message: "無效的購幣方案",
	}
)

// ID 相關錯誤
var (
	ErrInvalidWalletID = &shared.DomainError{
		Code:    ErrCodeInvalidWalletID,
		Message: "無效的錢包 ID",
	}

	ErrInvalidMemberID = &shared.DomainError{
		Code:    ErrCodeInvalidMemberID,
		Message: "無效的會員 ID",
	}

	ErrInvalidPurchaseID = &shared.DomainError{
		Code:    ErrCodeInvalidPurchaseID,
		Message: "無效的購買紀錄 ID",
	}
)

// Repository 相關錯誤
var (
	ErrWalletNotFound = &shared.DomainError{
		Code:    ErrCodeWalletNotFound,
		Message: "錢包不存在",
	}

	ErrWalletAlreadyExists = &shared.DomainError{
		Code:    ErrCodeWalletAlreadyExists,
		Message: "錢包已存在",
	}

	// ErrCorruptedWallet 資料庫中的餘額違反不變條件
	ErrCorruptedWallet = &shared.DomainError{
		Code:    ErrCodeCorruptedWallet,
		Message: "錢包資料損壞",
	}

	// ErrDuplicatePayment 同一筆付款確認重複送達
	ErrDuplicatePayment = &shared.DomainError{
		Code:    ErrCodeDuplicatePayment,
		Message: "付款確認已處理",
	}
)
