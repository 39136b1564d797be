package goods

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// 錯誤代碼常量
const (
	ErrCodeInsufficientStock shared.ErrorCode = "STOCK_INSUFFICIENT"
	ErrCodeInvalidQuantity   shared.ErrorCode = "QUANTITY_INVALID"
	ErrCodeInvalidGood       shared.ErrorCode = "GOOD_INVALID"
	ErrCodeInvalidShipping   shared.ErrorCode = "SHIPPING_INVALID"
	ErrCodeEmptyCart         shared.ErrorCode = "CART_EMPTY"

	ErrCodeInvalidGoodID  shared.ErrorCode = "GOOD_ID_INVALID"
	ErrCodeInvalidOrderID shared.ErrorCode = "ORDER_ID_INVALID"

	ErrCodeGoodNotFound     shared.ErrorCode = "GOOD_NOT_FOUND"
	ErrCodeOrderNotFound    shared.ErrorCode = "ORDER_NOT_FOUND"
	ErrCodeCartItemNotFound shared.ErrorCode = "CART_ITEM_NOT_FOUND"
	ErrCodeCorruptedOrder   shared.ErrorCode = "ORDER_CORRUPTED"
)

// 兌換相關錯誤
var (
	ErrInsufficientStock = &shared.DomainError{
		Code:    ErrCodeInsufficientStock,
		Message: "商品庫存不足",
	}

	ErrInvalidQuantity = &shared.DomainError{
		Code:    ErrCodeInvalidQuantity,
		Message: "數量必須為正數",
	}

	ErrInvalidGood = &shared.DomainError{
		Code:    ErrCodeInvalidGood,
		Message: "無效的商品資料",
	}

	ErrInvalidShipping = &shared.DomainError{
		Code:    ErrCodeInvalidShipping,
		Message: "收件資料不完整",
	}

	ErrEmptyCart = &shared.DomainError{
		Code:    ErrCodeEmptyCart,
		Message: "購物車是空的",
	}
)

// ID 相關錯誤
var (
	ErrInvalidGoodID = &shared.DomainError{
		Code:    ErrCodeInvalidGoodID,
		Message: "無效的商品 ID",
	}

	ErrInvalidOrderID = &shared.DomainError{
		Code:    ErrCodeInvalidOrderID,
		Message: "無效的訂單 ID",
	}
)

// 查詢相關錯誤
var (
	ErrGoodNotFound = &shared.DomainError{
		Code:    ErrCodeGoodNotFound,
		Message: "商品不存在",
	}

	ErrOrderNotFound = &shared.DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: "訂單不存在",
	}

	ErrCartItemNotFound = &shared.DomainError{
		Code:    ErrCodeCartItemNotFound,
		Message: "購物車中沒有此商品",
	}

	ErrCorruptedOrder = &shared.DomainError{
		Code:    ErrCodeCorruptedOrder,
		Message: "訂單資料損壞",
	}
)
