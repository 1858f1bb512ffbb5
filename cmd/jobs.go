package cmd

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vendaflow/ms-go-billing/app/repository"
	"github.com/vendaflow/ms-go-billing/app/service"
	"github.com/vendaflow/ms-go-billing/config"

	_ "github.com/go-sql-driver/mysql"
)

var sweepWorker bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire overdue trial and active subscriptions",
	Long:  "Mark active subscriptions past their end date and trials past their trial end date as expired. Runs one pass and exits unless --worker is set.",
	Run: func(_ *cobra.Command, _ []string) {
		runSweepCommand()
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().BoolVar(&sweepWorker, "worker", false, "Run continuously using configured interval")
}

func runSweepCommand() {
	cfg, subscriptionService, cleanup := mustCreateServices()
	defer cleanup()

	sweep := func(ctx context.Context) error {
		result, err := subscriptionService.SweepExpirations(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"expired_active": result.ExpiredActive,
			"expired_trials": result.ExpiredTrials,
		}).Info("Expiration sweep finished")
		return nil
	}

	if sweepWorker {
		runWorker("sweep_expirations", cfg.Jobs.ExpirationCheckInterval, sweep)
		return
	}

	// One-shot mode for external schedulers: a failed pass must exit
	// non-zero so the scheduler records the failure.
	if !runJob("sweep_expirations", func() error { return sweep(context.Background()) }) {
		os.Exit(1)
	}
}

func runWorker(name string, interval time.Duration, fn func(ctx context.Context) error) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(ctx) })
		}
	}
}

func mustCreateServices() (*config.Config, *service.SubscriptionService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planRepo, cfg.Subscriptions)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, subscriptionService, cleanup
}

func runJob(name string, fn func() error) bool {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return false
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
	return true
}
