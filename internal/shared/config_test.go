package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tunedock.db" {
			t.Errorf("expected database path ./tunedock.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Device.Address != "192.168.4.1" {
			t.Errorf("expected device address 192.168.4.1, got %s", config.Device.Address)
		}

		if config.Device.ProbeTimeoutSeconds != 3 {
			t.Errorf("expected probe timeout 3s, got %d", config.Device.ProbeTimeoutSeconds)
		}

		if config.Credentials.Catalog.ClientID != "your_catalog_client_id" {
			t.Errorf("expected catalog client_id your_catalog_client_id, got %s", config.Credentials.Catalog.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[device]
address = "10.0.0.42"
probe_timeout_seconds = 5
upload_timeout_minutes = 1

[credentials.catalog]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Device.Address != "10.0.0.42" {
			t.Errorf("expected device address 10.0.0.42, got %s", config.Device.Address)
		}

		if config.Credentials.Catalog.ClientID != "test_client_id" {
			t.Errorf("expected catalog client_id test_client_id, got %s", config.Credentials.Catalog.ClientID)
		}
	})
}
