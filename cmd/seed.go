package cmd

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vendaflow/ms-go-billing/app/repository"
	"github.com/vendaflow/ms-go-billing/app/service"
	"github.com/vendaflow/ms-go-billing/config"

	_ "github.com/go-sql-driver/mysql"
)

var seedPlansCmd = &cobra.Command{
	Use:   "seed-plans",
	Short: "Seed the default plan catalog",
	Long:  "Insert the default plans into an empty catalog. Does nothing when plans already exist.",
	Run:   runSeedPlans,
}

func init() {
	rootCmd.AddCommand(seedPlansCmd)
}

func runSeedPlans(_ *cobra.Command, _ []string) {
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
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	planService := service.NewPlanService(repository.NewPlanRepository(db))
	seeded, err := planService.SeedDefaultPlans(context.Background())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to seed plans")
	}

	if seeded == 0 {
		logrus.Info("Plan catalog already seeded")
		return
	}
	logrus.WithField("plans", seeded).Info("Plan catalog seeded")
}
