package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tunedock/tunedock/internal/models"
)

// CachedTrack is a catalog track persisted from search results, with the
// denormalized fields the CLI needs to list it offline.
type CachedTrack struct {
	ID       string
	Name     string
	Artist   string
	Album    string
	Cover    string
	CachedAt time.Time
}

// TrackCacheRepository persists catalog search results in the track_cache table.
//
// Duplicate saves are silently ignored (PRIMARY KEY constraint), matching the
// idempotent-insertion rule used elsewhere for catalog-sourced records.
type TrackCacheRepository struct {
	db *sql.DB
}

// NewTrackCacheRepository creates a TrackCacheRepository with the given database connection.
func NewTrackCacheRepository(db *sql.DB) *TrackCacheRepository {
	return &TrackCacheRepository{db: db}
}

// Save caches a track. Returns nil if the track is already cached.
func (r *TrackCacheRepository) Save(track models.Track) error {
	query := `
		INSERT INTO track_cache (id, name, artist, album, cover, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		track.ID,
		track.Name,
		track.PrimaryArtist(),
		track.Album.Name,
		track.Album.CoverURL(),
		time.Now(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// Get retrieves a cached track by catalog id.
func (r *TrackCacheRepository) Get(id string) (*CachedTrack, error) {
	query := `
		SELECT id, name, artist, album, COALESCE(cover, ''), cached_at
		FROM track_cache
		WHERE id = ?
	`

	var t CachedTrack
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.Artist, &t.Album, &t.Cover, &t.CachedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not cached: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query track cache: %w", err)
	}

	return &t, nil
}

// List retrieves all cached tracks ordered by most recently cached first.
func (r *TrackCacheRepository) List() ([]CachedTrack, error) {
	query := `
		SELECT id, name, artist, album, COALESCE(cover, ''), cached_at
		FROM track_cache
		ORDER BY cached_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query track cache: %w", err)
	}
	defer rows.Close()

	var tracks []CachedTrack
	for rows.Next() {
		var t CachedTrack
		if err := rows.Scan(&t.ID, &t.Name, &t.Artist, &t.Album, &t.Cover, &t.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached track: %w", err)
		}
		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Clear removes every cached track.
func (r *TrackCacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM track_cache"); err != nil {
		return fmt.Errorf("failed to clear track cache: %w", err)
	}
	return nil
}
