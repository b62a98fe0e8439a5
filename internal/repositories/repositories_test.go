package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestPrefs(t *testing.T) {
	t.Run("Get missing key", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		_, err := prefs.Get("nonexistent")
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		if err := prefs.Set(KeyDeviceAddress, "192.168.4.1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, err := prefs.Get(KeyDeviceAddress)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "192.168.4.1" {
			t.Errorf("expected 192.168.4.1, got %s", got)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		if err := prefs.Set(KeyDeviceAddress, "192.168.4.1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := prefs.Set(KeyDeviceAddress, "10.0.0.42"); err != nil {
			t.Fatalf("second Set failed: %v", err)
		}

		got, err := prefs.Get(KeyDeviceAddress)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "10.0.0.42" {
			t.Errorf("expected 10.0.0.42, got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		if err := prefs.Set("k", "v"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := prefs.Delete("k"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := prefs.Get("k"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}

		// Deleting an absent key is a no-op
		if err := prefs.Delete("k"); err != nil {
			t.Errorf("deleting absent key should not fail: %v", err)
		}
	})

	t.Run("JSON round trip", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		type record struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}

		in := record{Name: "history", Count: 3}
		if err := prefs.SetJSON("rec", in); err != nil {
			t.Fatalf("SetJSON failed: %v", err)
		}

		var out record
		if err := prefs.GetJSON("rec", &out); err != nil {
			t.Fatalf("GetJSON failed: %v", err)
		}
		if out != in {
			t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
		}
	})

	t.Run("GetJSON malformed value", func(t *testing.T) {
		prefs := NewPrefs(setupTestDB(t))

		if err := prefs.Set("bad", "{not json"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		var out map[string]any
		if err := prefs.GetJSON("bad", &out); err == nil {
			t.Error("expected error for malformed JSON value")
		}
	})
}

func TestTrackCacheRepository(t *testing.T) {
	track := models.Track{
		ID:      "track1",
		Name:    "Song One",
		Artists: []models.Artist{{ID: "a1", Name: "Artist One"}},
		Album: models.Album{
			ID:     "album1",
			Name:   "Album One",
			Images: []models.Image{{URL: "https://img.example/cover.jpg"}},
		},
	}

	t.Run("Save and Get", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if err := repo.Save(track); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := repo.Get("track1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != "Song One" || got.Artist != "Artist One" || got.Album != "Album One" {
			t.Errorf("unexpected cached track: %+v", got)
		}
		if got.Cover != "https://img.example/cover.jpg" {
			t.Errorf("expected cover URL, got %s", got.Cover)
		}
	})

	t.Run("Save is idempotent", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if err := repo.Save(track); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		if err := repo.Save(track); err != nil {
			t.Fatalf("duplicate Save should be a no-op: %v", err)
		}

		tracks, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected 1 cached track, got %d", len(tracks))
		}
	})

	t.Run("Get missing track", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected error for uncached track")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if err := repo.Save(track); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		tracks, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty cache after Clear, got %d tracks", len(tracks))
		}
	})
}
