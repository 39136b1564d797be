package subscription

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// 錯誤代碼常量
const (
	ErrCodeDuplicateActive       shared.ErrorCode = "SUBSCRIPTION_DUPLICATE_ACTIVE"
	ErrCodeInvalidPlan           shared.ErrorCode = "PLAN_INVALID"
	ErrCodePlanNotFound          shared.ErrorCode = "PLAN_NOT_FOUND"
	ErrCodeSubscriptionNotFound  shared.ErrorCode = "SUBSCRIPTION_NOT_FOUND"
	ErrCodeInvalidSubscriptionID shared.ErrorCode = "SUBSCRIPTION_ID_INVALID"
	ErrCodeStaleSubscription     shared.ErrorCode = "SUBSCRIPTION_STALE"
	ErrCodeCorruptedSubscription shared.ErrorCode = "SUBSCRIPTION_CORRUPTED"
)

var (
	// ErrDuplicateActiveSubscription 同一會員對同一動物已有有效訂閱
	ErrDuplicateActiveSubscription = &shared.DomainError{
		Code:    ErrCodeDuplicateActive,
		Message: "已經訂閱過這隻動物",
	}

	// ErrInvalidPlan 方案資料不合法
	ErrInvalidPlan = &shared.DomainError{
		Code:    ErrCodeInvalidPlan,
		Message: "無效的訂閱方案",
	}

	// ErrPlanNotFound 方案代碼不存在
	ErrPlanNotFound = &shared.DomainError{
		Code:    ErrCodePlanNotFound,
		Message: "訂閱方案不存在",
	}

	ErrSubscriptionNotFound = &shared.DomainError{
		Code:    ErrCodeSubscriptionNotFound,
		Message: "訂閱不存在",
	}

	ErrInvalidSubscriptionID = &shared.DomainError{
		Code:    ErrCodeInvalidSubscriptionID,
		Message: "無效的訂閱 ID",
	}

	// ErrStaleSubscription 條件更新沒有命中（另一個執行已經處理過）
	ErrStaleSubscription = &shared.DomainError{
		Code:    ErrCodeStaleSubscription,
		Message: "訂閱已被其他作業更新",
	}

	ErrCorruptedSubscription = &shared.DomainError{
		Code:    ErrCodeCorruptedSubscription,
		Message: "訂閱資料損壞",
	}
)
