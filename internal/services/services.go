package services

import (
	"context"

	"github.com/tunedock/tunedock/internal/models"
)

// Catalog defines read-only access to the remote music catalog.
type Catalog interface {
	// CheckCredentials verifies that an app-level token can be acquired.
	// Always completes with a boolean outcome; failures are not propagated.
	CheckCredentials(ctx context.Context) bool

	// Search queries the catalog for tracks, albums and artists.
	Search(ctx context.Context, query string, types []string) (*SearchResults, error)

	// Album retrieves album metadata by catalog id.
	Album(ctx context.Context, albumID string) (*models.Album, error)

	// AlbumTracks retrieves the track listing of an album.
	AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error)

	// Track retrieves a single track by catalog id.
	Track(ctx context.Context, trackID string) (*models.Track, error)

	// Me retrieves the authenticated user's profile. Requires a user-level token.
	Me(ctx context.Context) (*models.User, error)

	// UserPlaylists retrieves the authenticated user's playlists.
	UserPlaylists(ctx context.Context) ([]models.Playlist, error)

	// TopArtists retrieves the authenticated user's top artists.
	TopArtists(ctx context.Context) ([]models.Artist, error)

	// Name returns the catalog provider's display name.
	Name() string
}

// SearchResults groups the typed result lists of a catalog search.
type SearchResults struct {
	Tracks  []models.Track
	Albums  []models.Album
	Artists []models.Artist
}

// Empty reports whether the search matched nothing.
func (r *SearchResults) Empty() bool {
	return len(r.Tracks) == 0 && len(r.Albums) == 0 && len(r.Artists) == 0
}
