package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/tunedock/tunedock/internal/device"
	"github.com/tunedock/tunedock/internal/playlist"
	"github.com/tunedock/tunedock/internal/repositories"
	"github.com/tunedock/tunedock/internal/services"
	"github.com/tunedock/tunedock/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	// Migrations are idempotent, so every invocation is safe to run them.
	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	prefs := repositories.NewPrefs(db)

	var catalog services.Catalog
	if config.Credentials.Catalog.ClientID != "" && config.Credentials.Catalog.ClientSecret != "" {
		if client, err := services.NewCatalogClient(services.CatalogOpts{
			ClientID:     config.Credentials.Catalog.ClientID,
			ClientSecret: config.Credentials.Catalog.ClientSecret,
			RedirectURI:  config.Credentials.Catalog.RedirectURI,
			Prefs:        prefs,
		}); err == nil {
			catalog = client
		}
	}

	store := playlist.NewStore(prefs, logger)
	transport := device.NewTransport(device.TransportOpts{
		Prefs:         prefs,
		Logger:        logger,
		ProbeTimeout:  time.Duration(config.Device.ProbeTimeoutSeconds) * time.Second,
		UploadTimeout: time.Duration(config.Device.UploadTimeoutMinutes) * time.Minute,
	})

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Catalog:   catalog,
		Prefs:     prefs,
		Cache:     repositories.NewTrackCacheRepository(db),
		Store:     store,
		Transport: transport,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "tunedock",
		Usage:    "Build a playlist from the music catalog & sync it to your player",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
