// Package config 載入 YAML 設定檔並套用預設值
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvDatabaseDSN 覆蓋 database.dsn 的環境變數
const EnvDatabaseDSN = "STANNING_DB_DSN"

// Config 服務設定
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	Exchange     ExchangeConfig     `yaml:"exchange"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// DatabaseConfig 資料庫連線
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`
}

// LogConfig 日誌
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ExchangeConfig 應援與購幣規則
type ExchangeConfig struct {
	CheerCostCoins    int              `yaml:"cheer_cost_coins"`
	CheerRewardPoints int              `yaml:"cheer_reward_points"`
	CoinPlans         []CoinPlanConfig `yaml:"coin_plans"`
}

// CoinPlanConfig 一個購幣方案
type CoinPlanConfig struct {
	Coins int    `yaml:"coins"`
	Price string `yaml:"price"`
}

// SubscriptionConfig 訂閱方案目錄（seed-plans 寫入資料庫）
type SubscriptionConfig struct {
	Plans []PlanConfig `yaml:"plans"`
}

// PlanConfig 一個訂閱方案
type PlanConfig struct {
	Code            string `yaml:"code"`
	Name            string `yaml:"name"`
	AmountDue       string `yaml:"amount_due"`
	PointGrant      int    `yaml:"point_grant"`
	TermKind        string `yaml:"term_kind"` // recurring | fixed_term
	FixedTermMonths int    `yaml:"fixed_term_months"`
}

// SchedulerConfig 每日發放排程
type SchedulerConfig struct {
	GrantCron string `yaml:"grant_cron"`
	Timezone  string `yaml:"timezone"`
}

// MetricsConfig /metrics 監聽位址，空字串表示不啟用
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Location 解析排程時區
func (s SchedulerConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(s.Timezone) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// ===========================
// 載入
// ===========================

// EnvLookup 環境變數查詢
type EnvLookup func(string) (string, bool)

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(string) ([]byte, error)
}

// Option 載入選項
type Option func(*loadOptions)

// WithEnvLookup 注入環境變數查詢（測試用）
func WithEnvLookup(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithFileReader 注入檔案讀取（測試用）
func WithFileReader(reader func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = reader }
}

// Load 讀取 path（可為空或不存在，此時只用預設值），套用預設值、環境變數後驗證
func Load(path string, opts ...Option) (*Config, error) {
	options := loadOptions{
		envLookup: os.LookupEnv,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := options.readFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		case len(bytes.TrimSpace(data)) > 0:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if dsn, ok := options.envLookup(EnvDatabaseDSN); ok && strings.TrimSpace(dsn) != "" {
		cfg.Database.DSN = strings.TrimSpace(dsn)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults 補上 YAML 中留空的欄位
func (c *Config) applyDefaults() {
	d := Default()
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = d.Database.DSN
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Exchange.CheerCostCoins == 0 {
		c.Exchange.CheerCostCoins = d.Exchange.CheerCostCoins
	}
	if c.Exchange.CheerRewardPoints == 0 {
		c.Exchange.CheerRewardPoints = d.Exchange.CheerRewardPoints
	}
	if len(c.Exchange.CoinPlans) == 0 {
		c.Exchange.CoinPlans = d.Exchange.CoinPlans
	}
	if len(c.Subscription.Plans) == 0 {
		c.Subscription.Plans = d.Subscription.Plans
	}
	if c.Scheduler.GrantCron == "" {
		c.Scheduler.GrantCron = d.Scheduler.GrantCron
	}
}
