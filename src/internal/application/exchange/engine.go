// Package exchange 購幣、應援與積分發放
package exchange

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/application/balance"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// 應援一次動物分數加 1，與獲得的積分數無關
const cheerScoreIncrement = 1

// Rules 兌換規則（由設定注入，不可變）
type Rules struct {
	CoinPlans         *wallet.CoinPlanTable
	CheerCostCoins    int
	CheerRewardPoints int
}

// DefaultRules 應援 100 幣換 1 積分，購幣方案為內建四檔
func DefaultRules() Rules {
	table, err := wallet.NewCoinPlanTable(wallet.DefaultCoinPlans())
	if err != nil {
		panic(err)
	}
	return Rules{CoinPlans: table, CheerCostCoins: 100, CheerRewardPoints: 1}
}

// Engine 套用兌換規則到會員錢包
//
// 所有餘額變更透過 balance.Store 的鎖定交易完成；
// Engine 本身不保存任何可變狀態。
type Engine struct {
	store     *balance.Store
	purchases wallet.PurchaseRecordRepository
	scores    animal.ScoreRepository
	clock     shared.Clock

	plans       *wallet.CoinPlanTable
	cheerCost   wallet.CoinAmount
	cheerReward wallet.PointsAmount
}

// NewEngine 創建 Engine；clock 為 nil 時使用系統時間
func NewEngine(
	store *balance.Store,
	purchases wallet.PurchaseRecordRepository,
	scores animal.ScoreRepository,
	rules Rules,
	clock shared.Clock,
) (*Engine, error) {
	if rules.CoinPlans == nil {
		return nil, wallet.ErrInvalidPlan.WithContext("reason", "coin plan table is required")
	}
	cost, err := wallet.NewCoinAmount(rules.CheerCostCoins)
	if err != nil || cost.IsZero() {
		return nil, wallet.ErrInvalidPlan.WithContext("cheer_cost_coins", rules.CheerCostCoins)
	}
	reward, err := wallet.NewPointsAmount(rules.CheerRewardPoints)
	if err != nil {
		return nil, wallet.ErrInvalidPlan.WithContext("cheer_reward_points", rules.CheerRewardPoints)
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}

	return &Engine{
		store:       store,
		purchases:   purchases,
		scores:      scores,
		clock:       clock,
		plans:       rules.CoinPlans,
		cheerCost:   cost,
		cheerReward: reward,
	}, nil
}
