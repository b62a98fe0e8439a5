package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound is returned by [Prefs.Get] when no value is stored under a key.
var ErrKeyNotFound = errors.New("preference key not found")

// Well-known preference keys. Other packages read and write through these so
// the full persisted surface stays greppable in one place.
const (
	KeyDeviceAddress     = "device_address"
	KeySyncHistory       = "device_sync_history"
	KeyPlaylist          = "virtual_playlist"
	KeyCatalogClientID   = "catalog_client_id"
	KeyCatalogSecret     = "catalog_client_secret"
	KeyCatalogRefreshTok = "catalog_refresh_token"
	KeyCatalogVerifier   = "catalog_pkce_verifier"
)

// Prefs is a durable string-keyed store backed by the prefs table.
//
// Values are opaque strings; GetJSON/SetJSON layer JSON encoding on top for
// structured records like the playlist and the sync history.
type Prefs struct {
	db *sql.DB
}

// NewPrefs creates a Prefs store with the given database connection.
func NewPrefs(db *sql.DB) *Prefs {
	return &Prefs{db: db}
}

// Get retrieves the value stored under key.
// Returns ErrKeyNotFound if the key has never been set.
func (p *Prefs) Get(key string) (string, error) {
	var value string
	err := p.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (p *Prefs) Set(key, value string) error {
	query := `
		INSERT INTO prefs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := p.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting an absent key is a no-op.
func (p *Prefs) Delete(key string) error {
	if _, err := p.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// GetJSON retrieves the value stored under key and unmarshals it into target.
// Returns ErrKeyNotFound if the key has never been set; a decode failure is
// returned as an error for the caller to discard-and-default.
func (p *Prefs) GetJSON(key string, target any) error {
	raw, err := p.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("malformed preference %s: %w", key, err)
	}
	return nil
}

// SetJSON marshals value and stores it under key.
func (p *Prefs) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference %s: %w", key, err)
	}
	return p.Set(key, string(raw))
}
