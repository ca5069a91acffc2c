package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/customer-records/internal/config"
	"github.com/Raymond9734/customer-records/internal/db"
	"github.com/Raymond9734/customer-records/internal/db/migrations"
	"github.com/Raymond9734/customer-records/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the customer records database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runUp,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDSN reads configuration the same way the API server does
func loadDSN() (string, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		return "", nil, fmt.Errorf("STORAGE_DRIVER is %q, migrations only apply to %q", cfg.Storage.Driver, config.StoragePostgres)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	dsn := db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}.DSN()
	return dsn, logger, nil
}

func runUp(_ *cobra.Command, _ []string) error {
	dsn, logger, err := loadDSN()
	if err != nil {
		return err
	}

	logger.Info("running customer migrations")
	if err := migrations.RunMigrationsUp(dsn); err != nil {
		return fmt.Errorf("failed to migrate customers: %w", err)
	}

	version, _, err := migrations.Version(dsn)
	if err != nil {
		return err
	}
	logger.Info("customer migrations completed", slog.Uint64("version", uint64(version)))
	return nil
}

func runVersion(cmd *cobra.Command, _ []string) error {
	dsn, _, err := loadDSN()
	if err != nil {
		return err
	}

	version, dirty, err := migrations.Version(dsn)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dirty {
		_, err = fmt.Fprintf(out, "%d (dirty)\n", version)
		return err
	}
	_, err = fmt.Fprintf(out, "%d\n", version)
	return err
}
