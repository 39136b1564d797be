package exchange

import (
	"fmt"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// ===========================
// Cheer Use Case
// ===========================

// CheerCommand 會員為動物應援
type CheerCommand struct {
	MemberID string
	AnimalID string
}

// CheerResult 應援結果
type CheerResult struct {
	Balance     wallet.Balance
	AnimalID    string
	AnimalScore int
}

// Cheer 扣應援幣、加積分、動物分數 +1，三者在同一個交易中提交
//
// 錯誤處理：
// - ErrInsufficientCoins: 應援幣不足，錢包與動物分數都不變
// - ErrInvalidAnimalID: 動物 ID 為空或過長
func (e *Engine) Cheer(cmd CheerCommand) (*CheerResult, error) {
	memberID, err := wallet.MemberIDFromString(cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse member ID: %w", err)
	}
	animalID, err := animal.ValidateAnimalID(cmd.AnimalID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate animal ID: %w", err)
	}

	result := &CheerResult{AnimalID: animalID}
	// 動物分數以原子 upsert 累加，不需要動物鍵鎖
	balance, err := e.store.WithLockedWallet(memberID, func(ctx shared.TransactionContext, w *wallet.Wallet) error {
		if err := w.Cheer(e.cheerCost, e.cheerReward, animalID); err != nil {
			return err
		}
		score, err := e.scores.Increment(ctx, animalID, cheerScoreIncrement)
		if err != nil {
			return fmt.Errorf("failed to increment animal score: %w", err)
		}
		result.AnimalScore = score.Score()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Balance = balance
	return result, nil
}

// ===========================
// 排行榜
// ===========================

// Ranking 動物分數排行；limit <= 0 表示全部
func (e *Engine) Ranking(limit int) ([]animal.RankEntry, error) {
	entries, err := e.scores.ListRanking(nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking: %w", err)
	}
	return entries, nil
}

// AnimalScore 單一動物目前分數；沒有任何應援時為 0
func (e *Engine) AnimalScore(animalID string) (int, error) {
	id, err := animal.ValidateAnimalID(animalID)
	if err != nil {
		return 0, fmt.Errorf("failed to validate animal ID: %w", err)
	}
	score, err := e.scores.FindByAnimalID(nil, id)
	if err != nil {
		return 0, fmt.Errorf("failed to find animal score: %w", err)
	}
	return score.Score(), nil
}
