package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/summitpines/bunkmate/cmd/cli/commands"
	"github.com/summitpines/bunkmate/internal/config"
	"github.com/summitpines/bunkmate/pkg/clients/rosterclient"
	"github.com/summitpines/bunkmate/pkg/core/runs"
	"github.com/summitpines/bunkmate/pkg/core/services"
	"github.com/summitpines/bunkmate/pkg/postgres"
	"github.com/summitpines/bunkmate/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Bunkmate CLI - Manage camp bunk assignments",
		Long:  `A CLI tool for importing camp rosters, running bunk assignment optimization, and managing what-if scenarios.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.SubmitRunCmd(app))
	rootCmd.AddCommand(commands.GetRunCmd(app))
	rootCmd.AddCommand(commands.CancelRunCmd(app))
	rootCmd.AddCommand(commands.ApplyRunCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.CreateScenarioCmd(app))
	rootCmd.AddCommand(commands.ListScenariosCmd(app))
	rootCmd.AddCommand(commands.UpdateScenarioCmd(app))
	rootCmd.AddCommand(commands.DeleteScenarioCmd(app))
	rootCmd.AddCommand(commands.ClearScenarioCmd(app))
	rootCmd.AddCommand(commands.UpsertAssignmentCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command) error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect to the database and run migrations
	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	app.Logger.Info("Database initialized successfully")

	// The roster client triggers an OAuth flow, so only set it up for the
	// command that reads the roster sheet
	if cmd.Name() == "importRoster" {
		app.Logger.Info("Initializing roster client")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		app.RosterClient, err = rosterclient.NewClient(app.Ctx, oauthCfg, env)
		if err != nil {
			return fmt.Errorf("failed to create roster client: %w", err)
		}
		app.Logger.Debug("Roster client initialized successfully")
	}

	// Build the run manager over the optimizer service
	optimizer := services.NewOptimizer(database, services.SolverWeights(app.Cfg), app.Logger)
	app.Runs = runs.NewManager(optimizer, database, app.Logger, runs.Options{
		MinBudget: time.Duration(app.Cfg.RunLimits.MinBudgetSeconds) * time.Second,
		MaxBudget: time.Duration(app.Cfg.RunLimits.MaxBudgetSeconds) * time.Second,
	})

	return nil
}
