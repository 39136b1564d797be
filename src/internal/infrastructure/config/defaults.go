package config

// Default 內建設定：本機 SQLite、每天 00:05 發放
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "stanning_ledger.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Exchange: ExchangeConfig{
			CheerCostCoins:    100,
			CheerRewardPoints: 1,
			CoinPlans: []CoinPlanConfig{
				{Coins: 100, Price: "100"},
				{Coins: 1000, Price: "1000"},
				{Coins: 3600, Price: "3000"},
				{Coins: 7000, Price: "5000"},
			},
		},
		Subscription: SubscriptionConfig{
			Plans: []PlanConfig{
				{Code: "sb1", Name: "月額サポート 1000", AmountDue: "1000", PointGrant: 15, TermKind: "recurring"},
				{Code: "sb2", Name: "月額サポート 3000", AmountDue: "3000", PointGrant: 50, TermKind: "recurring"},
				{Code: "sb3", Name: "月額サポート 5000", AmountDue: "5000", PointGrant: 90, TermKind: "recurring"},
				{Code: "sb4", Name: "月額サポート 8000", AmountDue: "8000", PointGrant: 150, TermKind: "recurring"},
				{Code: "sb5", Name: "月額サポート 10000", AmountDue: "10000", PointGrant: 200, TermKind: "recurring"},
				{Code: "by1", Name: "3ヶ月サポート", AmountDue: "3000", PointGrant: 40, TermKind: "fixed_term", FixedTermMonths: 3},
				{Code: "by2", Name: "6ヶ月サポート", AmountDue: "5000", PointGrant: 80, TermKind: "fixed_term", FixedTermMonths: 6},
				{Code: "by3", Name: "12ヶ月サポート", AmountDue: "10000", PointGrant: 180, TermKind: "fixed_term", FixedTermMonths: 12},
			},
		},
		Scheduler: SchedulerConfig{
			GrantCron: "5 0 * * *",
			Timezone:  "Asia/Tokyo",
		},
	}
}
