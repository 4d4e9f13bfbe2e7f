package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/db"
	"warehouse-ops-backend/internal/logger"
	"warehouse-ops-backend/internal/state"
	"warehouse-ops-backend/internal/store"
)

var (
	configPath string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "warehoused",
	Short: "Warehouse operations dashboard backend",
	Long: `warehoused serves the warehouse operations dashboard: inventory, the
simulated bot fleet, reports and the AI assistant.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
		}
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
		log.Info().Str("path", configPath).Msg("configuration loaded")
		return nil
	},
	RunE: runServe,
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/config.yaml"
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openStore connects and migrates the database.
func openStore() (store.Store, *gorm.DB, error) {
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database initialized")
	return store.NewGormStore(gormDB), gormDB, nil
}

// loadState opens the store and loads the in-memory state from it.
func loadState(ctx context.Context, seed bool, opts ...state.Option) (*state.App, store.Store, func(), error) {
	s, gormDB, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	app := state.New(s, log, opts...)
	if err := app.Load(ctx, seed); err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("failed to load state: %w", err)
	}
	return app, s, closeDB, nil
}
