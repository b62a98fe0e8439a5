package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tunedock/tunedock/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file if missing, initializes the database
// and verifies the configured catalog credentials.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			r.writePlain("✓ Created %s\n", configPath)
			r.writePlain("Edit it with your catalog credentials, then re-run 'tunedock setup'\n")
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	if r.catalog == nil {
		r.writePlain("Catalog credentials not configured yet; fill in [credentials.catalog] in %s\n", configPath)
		return nil
	}

	if r.catalog.CheckCredentials(ctx) {
		r.writePlain("✓ Catalog credentials verified\n")
	} else {
		r.writePlain("✗ Catalog rejected the configured credentials\n")
	}

	return nil
}
