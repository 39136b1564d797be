package main

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/ledger"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/config"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/observability"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/persistence"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 訂閱方案快取容量；方案目錄只有個位數
const planCacheSize = 64

// app 一次指令執行所需的已組裝元件
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	logger   *slog.Logger
	metrics  *observability.Metrics
	registry *prometheus.Registry
	facade   *ledger.Facade
}

// newApp 載入設定、開啟資料庫並組裝 Facade
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := observability.NewLogger(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})

	location, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	plans, err := cfg.Exchange.CoinPlanTable()
	if err != nil {
		return nil, fmt.Errorf("failed to build coin plans: %w", err)
	}

	db, err := persistence.Open(cfg.Database.Driver, cfg.Database.DSN, gormLogLevel(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.MustNewMetrics(registry)

	planRepo, err := persistence.NewCachedPlanRepository(persistence.NewPlanRepository(db), planCacheSize)
	if err != nil {
		_ = persistence.Close(db)
		return nil, fmt.Errorf("failed to create plan cache: %w", err)
	}

	facade, err := ledger.New(ledger.Dependencies{
		Wallets:       persistence.NewWalletRepository(db),
		Purchases:     persistence.NewPurchaseRecordRepository(db),
		Scores:        persistence.NewAnimalScoreRepository(db),
		Goods:         persistence.NewGoodRepository(db),
		Orders:        persistence.NewOrderRepository(db),
		Carts:         persistence.NewCartRepository(db),
		Plans:         planRepo,
		Subscriptions: persistence.NewSubscriptionRepository(db),
		TxManager:     persistence.NewGORMTransactionManager(db),
		Rules: exchange.Rules{
			CoinPlans:         plans,
			CheerCostCoins:    cfg.Exchange.CheerCostCoins,
			CheerRewardPoints: cfg.Exchange.CheerRewardPoints,
		},
		Publisher: observability.CompositePublisher{
			observability.NewLoggingPublisher(log),
			observability.NewMetricsPublisher(metrics),
		},
		Clock:    shared.SystemClock{Location: location},
		Logger:   log,
		Observer: metrics,
		Errors:   metrics,
	})
	if err != nil {
		_ = persistence.Close(db)
		return nil, fmt.Errorf("failed to assemble ledger: %w", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		logger:   log,
		metrics:  metrics,
		registry: registry,
		facade:   facade,
	}, nil
}

// Close 釋放資料庫連線
func (a *app) Close() error {
	return persistence.Close(a.db)
}

// gormLogLevel debug 時輸出 SQL，其餘只留警告
func gormLogLevel(level string) logger.LogLevel {
	if level == "debug" {
		return logger.Info
	}
	return logger.Warn
}
