package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/subscribe"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type appLoader func() (*app, error)

// ===========================
// serve
// ===========================

func newServeCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily grant scheduler and the /metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	location, err := a.cfg.Scheduler.Location()
	if err != nil {
		return err
	}
	grants, err := scheduler.New(
		scheduler.Config{Spec: a.cfg.Scheduler.GrantCron, Location: location},
		func(today time.Time) error {
			_, err := a.facade.RunDailyGrantCycle(today)
			return err
		},
		scheduler.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grants.Start(gctx); err != nil {
			return err
		}
		<-grants.Done()
		return nil
	})

	if addr := a.cfg.Metrics.Addr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			a.logger.Info("metrics server listening", slog.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// ===========================
// grant
// ===========================

func newGrantCommand(load appLoader) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Run the daily grant cycle once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			today, err := grantDate(a, date)
			if err != nil {
				return err
			}
			report, err := a.facade.RunDailyGrantCycle(today)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "grant date YYYY-MM-DD (default: today in scheduler timezone)")
	return cmd
}

func grantDate(a *app, date string) (time.Time, error) {
	if date == "" {
		location, err := a.cfg.Scheduler.Location()
		if err != nil {
			return time.Time{}, err
		}
		return shared.Today(shared.SystemClock{Location: location}), nil
	}
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", date, err)
	}
	return shared.DateOf(parsed), nil
}

func printReport(w io.Writer, r *subscribe.GrantReport) {
	fmt.Fprintf(w, "date=%s granted=%d points=%d skipped=%d expired=%d failed=%d\n",
		r.Date.Format(time.DateOnly), r.Granted, r.PointsGranted, r.Skipped, r.Expired, r.Failed)
}

// ===========================
// seed-plans
// ===========================

func newSeedPlansCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-plans",
		Short: "Write the subscription plan catalog from config into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			plans, err := a.cfg.Subscription.DomainPlans()
			if err != nil {
				return err
			}
			if err := a.facade.SeedPlans(plans); err != nil {
				return err
			}
			for _, p := range plans {
				fmt.Fprintln(cmd.OutOrStdout(), p.String())
			}
			return nil
		},
	}
}

// ===========================
// balance / ranking
// ===========================

func newBalanceCommand(load appLoader) *cobra.Command {
	var memberID string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a member's coin and point balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.facade.Balance(memberID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "member=%s coins=%d points=%d\n", b.MemberID, b.CoinBalance, b.PointBalance)
			return nil
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "member ID")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func newRankingCommand(load appLoader) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the animal cheer ranking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.facade.Ranking(limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\n", e.Rank, e.AnimalID, e.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of animals to show")
	return cmd
}
