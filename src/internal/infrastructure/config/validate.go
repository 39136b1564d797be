package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate 檢查設定值；多個問題一次回報
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn: required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unsupported %q", c.Log.Format))
	}

	if c.Exchange.CheerCostCoins <= 0 {
		errs = append(errs, fmt.Errorf("exchange.cheer_cost_coins: must be positive, got %d", c.Exchange.CheerCostCoins))
	}
	if c.Exchange.CheerRewardPoints <= 0 {
		errs = append(errs, fmt.Errorf("exchange.cheer_reward_points: must be positive, got %d", c.Exchange.CheerRewardPoints))
	}
	for i, p := range c.Exchange.CoinPlans {
		if _, err := decimal.NewFromString(p.Price); err != nil {
			errs = append(errs, fmt.Errorf("exchange.coin_plans[%d].price: %w", i, err))
		}
	}

	seen := make(map[string]struct{}, len(c.Subscription.Plans))
	for i, p := range c.Subscription.Plans {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			errs = append(errs, fmt.Errorf("subscription.plans[%d].code: required", i))
			continue
		}
		if _, dup := seen[code]; dup {
			errs = append(errs, fmt.Errorf("subscription.plans[%d].code: duplicate %q", i, code))
		}
		seen[code] = struct{}{}
		if _, err := decimal.NewFromString(p.AmountDue); err != nil {
			errs = append(errs, fmt.Errorf("subscription.plans[%d].amount_due: %w", i, err))
		}
		if p.TermKind == "fixed_term" && p.FixedTermMonths <= 0 {
			errs = append(errs, fmt.Errorf("subscription.plans[%d]: fixed_term plan %q needs fixed_term_months", i, code))
		}
	}

	if strings.TrimSpace(c.Scheduler.GrantCron) == "" {
		errs = append(errs, errors.New("scheduler.grant_cron: required"))
	}
	if _, err := c.Scheduler.Location(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
	}

	return errors.Join(errs...)
}
