package animal

import (
	"strings"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
)

// ===========================
// AnimalScore 公開應援分數
// ===========================

// AnimalScore 某隻動物累積的應援分數（每次應援 +1）
//
// 動物本身的資料（名字、照片）由目錄管理層維護，這裡只擁有分數。
type AnimalScore struct {
	animalID  string
	score     int
	updatedAt time.Time
}

// NewAnimalScore 建立分數為 0 的紀錄
func NewAnimalScore(animalID string) (*AnimalScore, error) {
	id, err := normalizeAnimalID(animalID)
	if err != nil {
		return nil, err
	}
	return &AnimalScore{animalID: id, updatedAt: time.Now()}, nil
}

// ReconstructAnimalScore 從持久化資料重建
func ReconstructAnimalScore(animalID string, score int, updatedAt time.Time) (*AnimalScore, error) {
	id, err := normalizeAnimalID(animalID)
	if err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, ErrCorruptedScore.WithContext("animal_id", id, "score", score)
	}
	return &AnimalScore{animalID: id, score: score, updatedAt: updatedAt}, nil
}

// AnimalID 動物 ID
func (a *AnimalScore) AnimalID() string { return a.animalID }

// Score 目前分數
func (a *AnimalScore) Score() int { return a.score }

// UpdatedAt 最後更新時間
func (a *AnimalScore) UpdatedAt() time.Time { return a.updatedAt }

// AddPoints 增加分數
func (a *AnimalScore) AddPoints(n int) error {
	if n <= 0 {
		return ErrInvalidIncrement.WithContext("animal_id", a.animalID, "increment", n)
	}
	a.score += n
	a.updatedAt = time.Now()
	return nil
}

// RankEntry 排行榜項目
type RankEntry struct {
	Rank     int
	AnimalID string
	Score    int
}

// ValidateAnimalID 檢查外部傳入的動物 ID
func ValidateAnimalID(animalID string) (string, error) {
	return normalizeAnimalID(animalID)
}

func normalizeAnimalID(animalID string) (string, error) {
	id := strings.TrimSpace(animalID)
	if id == "" {
		return "", ErrInvalidAnimalID.WithContext("input", animalID)
	}
	if len(id) > 64 {
		return "", ErrInvalidAnimalID.WithContext("input", animalID, "reason", "too long")
	}
	return id, nil
}

// ===========================
// Repository
// ===========================

// ScoreRepository 動物分數倉儲介面
type ScoreRepository interface {
	// Increment 在呼叫者的事務中為 animalID 加分（不存在時建立），返回加分後的紀錄
	Increment(ctx shared.TransactionContext, animalID string, n int) (*AnimalScore, error)

	// FindByAnimalID 查詢分數，不存在時返回分數 0 的紀錄
	FindByAnimalID(ctx shared.TransactionContext, animalID string) (*AnimalScore, error)

	// ListRanking 依分數高到低，同分依 animalID 升冪；limit <= 0 表示全部
	ListRanking(ctx shared.TransactionContext, limit int) ([]RankEntry, error)
}
