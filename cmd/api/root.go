package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/calendarapi/calendar-api/internal/config"
	"github.com/calendarapi/calendar-api/internal/repository"
)

// flags override the matching environment settings when set.
type flags struct {
	port      string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var f flags

	serve := newServeCmd(&f)
	root := &cobra.Command{
		Use:           "calendar-api",
		Short:         "Personal calendar REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Run serve when no subcommand is given.
		RunE: serve.RunE,
	}

	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "log format (text, json)")
	root.Flags().StringVar(&f.port, "port", "", "listen port")

	root.AddCommand(serve, newMigrateCmd(&f), newSecretCmd())
	return root
}

// loadConfig reads .env and the environment, applies flag overrides and
// installs the default logger.
func loadConfig(f *flags) (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if f.port != "" {
		cfg.Port = f.port
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}

	slog.SetDefault(config.NewLogger(cfg, os.Stdout))
	return cfg, nil
}

func openDB(ctx context.Context, cfg config.Config) (*repository.DB, error) {
	db, err := repository.NewDB(ctx, repository.Dialect(cfg.Database.Driver), cfg.Database.DSN(), repository.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func newMigrateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the calendar tables for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return db.Migrate(ctx)
		},
	}
}
