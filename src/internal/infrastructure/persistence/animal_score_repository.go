package persistence

import (
	"errors"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMAnimalScoreRepository 動物應援分數倉儲
//
// 加分以單一 upsert 完成（score = score + n），不需要額外的鍵鎖。
type GORMAnimalScoreRepository struct {
	db *gorm.DB
}

// NewAnimalScoreRepository 創建動物分數倉儲
func NewAnimalScoreRepository(db *gorm.DB) animal.ScoreRepository {
	return &GORMAnimalScoreRepository{db: db}
}

// Increment 為 animalID 加 n 分，不存在時建立
func (r *GORMAnimalScoreRepository) Increment(ctx shared.TransactionContext, animalID string, n int) (*animal.AnimalScore, error) {
	score, err := animal.NewAnimalScore(animalID)
	if err != nil {
		return nil, err
	}
	if err := score.AddPoints(n); err != nil {
		return nil, err
	}

	db := dbFrom(ctx, r.db)
	now := time.Now()
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "animal_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("animal_scores.score + ?", n),
			"updated_at": now,
		}),
	}).Create(&AnimalScoreModel{AnimalID: score.AnimalID(), Score: n, UpdatedAt: now})
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	return r.load(db, score.AnimalID())
}

// FindByAnimalID 不存在時返回分數 0
func (r *GORMAnimalScoreRepository) FindByAnimalID(ctx shared.TransactionContext, animalID string) (*animal.AnimalScore, error) {
	id, err := animal.ValidateAnimalID(animalID)
	if err != nil {
		return nil, err
	}
	score, err := r.load(dbFrom(ctx, r.db), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return animal.NewAnimalScore(id)
	}
	return score, err
}

func (r *GORMAnimalScoreRepository) load(db *gorm.DB, animalID string) (*animal.AnimalScore, error) {
	var model AnimalScoreModel
	result := db.Where("animal_id = ?", animalID).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}
	return animal.ReconstructAnimalScore(model.AnimalID, model.Score, model.UpdatedAt)
}

// ListRanking 依分數高到低，同分依 animal_id；limit <= 0 表示全部
func (r *GORMAnimalScoreRepository) ListRanking(ctx shared.TransactionContext, limit int) ([]animal.RankEntry, error) {
	query := dbFrom(ctx, r.db).Model(&AnimalScoreModel{}).Order("score DESC").Order("animal_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var models []AnimalScoreModel
	if err := query.Find(&models).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}

	entries := make([]animal.RankEntry, 0, len(models))
	for i, m := range models {
		entries = append(entries, animal.RankEntry{Rank: i + 1, AnimalID: m.AnimalID, Score: m.Score})
	}
	return entries, nil
}
