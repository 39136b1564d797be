package animal

import "github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"

// 錯誤代碼
const (
	ErrCodeInvalidAnimalID  shared.ErrorCode = "ANIMAL_ID_INVALID"
	ErrCodeInvalidIncrement shared.ErrorCode = "SCORE_INCREMENT_INVALID"
	ErrCodeCorruptedScore   shared.ErrorCode = "SCORE_CORRUPTED"
)

var (
	// ErrInvalidAnimalID 無效的動物 ID
	ErrInvalidAnimalID = &shared.DomainError{
		Code:    ErrCodeInvalidAnimalID,
		Message: "無效的動物 ID",
	}

	// ErrInvalidIncrement 分數只能增加
	ErrInvalidIncrement = &shared.DomainError{
		Code:    ErrCodeInvalidIncrement,
		Message: "應援分數增量必須為正數",
	}

	// ErrCorruptedScore 資料庫中的分數為負
	ErrCorruptedScore = &shared.DomainError{
		Code:    ErrCodeCorruptedScore,
		Message: "應援分數資料損壞",
	}
)
