package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-coordinator/cmd/cli/commands"
	"github.com/jakechorley/relief-coordinator/internal/config"
	"github.com/jakechorley/relief-coordinator/pkg/postgres"
	"github.com/jakechorley/relief-coordinator/pkg/utils/logging"
)

var env string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}
	var database *postgres.DB

	rootCmd := &cobra.Command{
		Use:   "relief",
		Short: "Relief Coordinator CLI - Assign volunteers to relief operations",
		Long:  `A CLI tool for tracking volunteer registrations, operation capacity and assignments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			database, err = initApp(app)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.CapacityCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.ReportCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.UnassignCmd(app))
	rootCmd.AddCommand(commands.RegisterVolunteerCmd(app))
	rootCmd.AddCommand(commands.DeleteVolunteerCmd(app))
	rootCmd.AddCommand(commands.ImportSheetCmd(app))
	rootCmd.AddCommand(commands.ImportFileCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads configuration, then sets up the logger and database
func initApp(app *commands.AppContext) (*postgres.DB, error) {
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	app.Logger, app.LogFile, err = logging.InitLogger(env, logging.Options{
		Dir:   cfg.Logging.Dir,
		Level: cfg.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded", zap.String("log_file", app.LogFile))

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Migrator = database
	app.Logger.Debug("Database connected")

	return database, nil
}
