package config

import (
	"fmt"
	"strings"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
)

// ===========================
// 設定 → 領域物件
// ===========================

// CoinPlanTable 轉成購幣方案表；方案與金額門檻不一致時返回 wallet.ErrInvalidPlan
func (e ExchangeConfig) CoinPlanTable() (*wallet.CoinPlanTable, error) {
	plans := make([]wallet.CoinPlan, 0, len(e.CoinPlans))
	for i, p := range e.CoinPlans {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("exchange.coin_plans[%d].price: %w", i, err)
		}
		coins, err := wallet.NewCoinAmount(p.Coins)
		if err != nil {
			return nil, fmt.Errorf("exchange.coin_plans[%d].coins: %w", i, err)
		}
		plans = append(plans, wallet.CoinPlan{Coins: coins, Price: price})
	}
	return wallet.NewCoinPlanTable(plans)
}

// DomainPlans 轉成訂閱方案目錄（供 seed-plans 寫入）
func (s SubscriptionConfig) DomainPlans() ([]*subscription.Plan, error) {
	plans := make([]*subscription.Plan, 0, len(s.Plans))
	for i, p := range s.Plans {
		amount, err := decimal.NewFromString(p.AmountDue)
		if err != nil {
			return nil, fmt.Errorf("subscription.plans[%d].amount_due: %w", i, err)
		}
		kind, err := subscription.ParseTermKind(strings.TrimSpace(p.TermKind))
		if err != nil {
			return nil, fmt.Errorf("subscription.plans[%d].term_kind: %w", i, err)
		}
		plan, err := subscription.NewPlan(strings.TrimSpace(p.Code), p.Name, amount, p.PointGrant, kind, p.FixedTermMonths)
		if err != nil {
			return nil, fmt.Errorf("subscription.plans[%d]: %w", i, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
