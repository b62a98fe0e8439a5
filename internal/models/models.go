package models

import (
	"fmt"
	"time"
)

// EntryStatus describes where a playlist entry sits in the transfer lifecycle.
type EntryStatus string

const (
	// StatusMissing means no local file has been linked to the entry.
	StatusMissing EntryStatus = "missing"
	// StatusLinked means a local file is linked but not yet transferred.
	StatusLinked EntryStatus = "linked"
	// StatusUploading means a transfer is in flight. Transient; never persisted.
	StatusUploading EntryStatus = "uploading"
	// StatusUploaded means the device acknowledged a complete transfer.
	StatusUploaded EntryStatus = "uploaded"
)

// Valid reports whether s is one of the known lifecycle states.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusMissing, StatusLinked, StatusUploading, StatusUploaded:
		return true
	}
	return false
}

// Track represents a music track sourced from the remote catalog.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
}

// PrimaryArtist returns the first artist's name, or an empty string.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// Artist represents a catalog artist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
	Images []Image  `json:"images,omitempty"`
}

// Album represents a catalog album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	TotalTracks int      `json:"total_tracks,omitempty"`
	Images      []Image  `json:"images,omitempty"`
}

// CoverURL returns the album's first image URL, or an empty string.
func (a Album) CoverURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

// Image represents a catalog image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// PlaylistEntry is the playlist store's unit of record: a desired track with
// denormalized display metadata and its transfer status.
//
// LocalPath is the session-scoped linkage to a local audio file. It carries a
// json:"-" tag so the binary resource reference is never persisted; after a
// reload a previously linked entry has an empty LocalPath and is not eligible
// for upload.
type PlaylistEntry struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Artist    string      `json:"artist"`
	Album     string      `json:"album"`
	Cover     string      `json:"cover,omitempty"`
	AddedAt   time.Time   `json:"addedAt"`
	Status    EntryStatus `json:"status"`
	LocalPath string      `json:"-"`
}

// Linked reports whether the entry holds a live local file reference and is
// therefore eligible for upload.
func (e PlaylistEntry) Linked() bool {
	return e.Status == StatusLinked && e.LocalPath != ""
}

// Validate checks the entry's required fields.
func (e PlaylistEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("playlist entry missing id")
	}
	if e.Name == "" {
		return fmt.Errorf("playlist entry %s missing name", e.ID)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("playlist entry %s has invalid status %q", e.ID, e.Status)
	}
	return nil
}

// SyncHistoryItem is an append-only audit record of a completed transfer.
type SyncHistoryItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Artist   string    `json:"artist"`
	Cover    string    `json:"cover,omitempty"`
	SyncedAt time.Time `json:"syncedAt"`
}

// DeviceStatus is the result of a connectivity probe against the player.
type DeviceStatus struct {
	Connected  bool   `json:"connected"`
	FreeSpace  int64  `json:"freeSpace,omitempty"`
	TotalSpace int64  `json:"totalSpace,omitempty"`
	Address    string `json:"address"`
}

// TagMeta holds metadata extracted from a local audio file's embedded tags.
type TagMeta struct {
	Title    string
	Artist   string
	Album    string
	HasCover bool
}

// User represents the authenticated catalog user's profile.
type User struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Country     string  `json:"country,omitempty"`
	Product     string  `json:"product,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// Playlist represents a catalog playlist owned by the user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}
