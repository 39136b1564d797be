// Package scheduler 以 cron 表達式觸發每日積分發放
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/robfig/cron/v3"
)

// RunFunc 執行一次發放；today 為排程時區內的日期
type RunFunc func(today time.Time) error

// Config 排程設定
type Config struct {
	Spec     string         // 五欄 cron 表達式，如 "5 0 * * *"
	Location *time.Location // nil 表示 UTC
}

// GrantScheduler 每日發放排程
//
// 上一次執行還沒結束時跳過本次觸發；
// 同日重複執行由發放流程本身保證冪等。
type GrantScheduler struct {
	cron     *cron.Cron
	spec     string
	location *time.Location
	run      RunFunc
	clock    shared.Clock
	logger   *slog.Logger

	mu       sync.Mutex
	entryID  cron.EntryID
	started  bool
	stopped  chan struct{}
	stopOnce sync.Once
}

// Option 排程選項
type Option func(*GrantScheduler)

// WithClock 注入時間來源（測試用）
func WithClock(clock shared.Clock) Option {
	return func(s *GrantScheduler) { s.clock = clock }
}

// WithLogger 注入 logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *GrantScheduler) { s.logger = logger }
}

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// New 建立排程；cron 表達式不合法時返回錯誤
func New(cfg Config, run RunFunc, opts ...Option) (*GrantScheduler, error) {
	spec := strings.TrimSpace(cfg.Spec)
	if _, err := specParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid grant cron %q: %w", spec, err)
	}
	if run == nil {
		return nil, fmt.Errorf("grant scheduler requires a run func")
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}

	s := &GrantScheduler{
		spec:     spec,
		location: location,
		run:      run,
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.clock == nil {
		s.clock = shared.SystemClock{Location: location}
	}
	s.cron = newCron(location, s.logger)
	return s, nil
}

func newCron(location *time.Location, logger *slog.Logger) *cron.Cron {
	cronLogger := slogCronLogger{logger: logger}
	return cron.New(
		cron.WithParser(specParser),
		cron.WithLocation(location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}

// Start 註冊發放工作並啟動；ctx 取消時自動停止
func (s *GrantScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, func() {
		_ = s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to register grant job: %w", err)
	}
	s.entryID = id
	s.started = true

	s.cron.Start()
	s.logger.Info("grant scheduler started",
		slog.String("spec", s.spec),
		slog.String("timezone", s.location.String()),
		slog.Time("next", s.cron.Entry(id).Next),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop 停止排程並等待執行中的發放結束；可重複呼叫
func (s *GrantScheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		close(s.stopped)
		s.logger.Info("grant scheduler stopped")
	})
}

// Done 完全停止後關閉
func (s *GrantScheduler) Done() <-chan struct{} {
	return s.stopped
}

// Next 下一次觸發時間；尚未啟動時為零值
func (s *GrantScheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunNow 以排程時區的今天立即執行一次發放
func (s *GrantScheduler) RunNow() error {
	today := shared.Today(inLocation{clock: s.clock, location: s.location})
	started := time.Now()

	err := s.run(today)
	attrs := []any{
		slog.String("date", today.Format(time.DateOnly)),
		slog.Duration("duration", time.Since(started)),
	}
	if err != nil {
		s.logger.Error("daily grant cycle failed", append(attrs, slog.Any("error", err))...)
		return err
	}
	s.logger.Info("daily grant cycle completed", attrs...)
	return nil
}

// inLocation 把 clock 的時間轉到排程時區再取日期
type inLocation struct {
	clock    shared.Clock
	location *time.Location
}

func (c inLocation) Now() time.Time {
	return c.clock.Now().In(c.location)
}

// ===========================
// cron.Logger → slog
// ===========================

type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
