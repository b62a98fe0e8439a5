package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tunedock/tunedock/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and prints typed results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}

	types := strings.Split(cmd.String("type"), ",")
	for i := range types {
		types[i] = strings.TrimSpace(types[i])
	}

	r.logger.Info("searching catalog", "query", query, "types", types)

	results, err := r.catalog.Search(ctx, query, types)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	// Cache track hits silently so add-by-id works offline later.
	if r.cache != nil {
		for _, track := range results.Tracks {
			if err := r.cache.Save(track); err != nil {
				r.logger.Debug("failed to cache track", "id", track.ID, "error", err)
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if results.Empty() {
		return r.writePlain("No results for %q\n", query)
	}

	if len(results.Tracks) > 0 {
		r.writePlainHeader("Tracks")
		for _, track := range results.Tracks {
			r.writePlain("%s  %s - %s (%s)\n", track.ID, track.PrimaryArtist(), track.Name, track.Album.Name)
		}
	}
	if len(results.Albums) > 0 {
		r.writePlainHeader("Albums")
		for _, album := range results.Albums {
			r.writePlain("%s  %s (%d tracks)\n", album.ID, album.Name, album.TotalTracks)
		}
	}
	if len(results.Artists) > 0 {
		r.writePlainHeader("Artists")
		for _, artist := range results.Artists {
			r.writePlain("%s  %s\n", artist.ID, artist.Name)
		}
	}

	return nil
}

// Album prints an album's metadata and track listing.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	albumID := cmd.StringArg("id")
	if albumID == "" {
		return fmt.Errorf("%w: album id required", shared.ErrMissingArgument)
	}

	album, err := r.catalog.Album(ctx, albumID)
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
	}

	tracks, err := r.catalog.AlbumTracks(ctx, albumID)
	if err != nil {
		return fmt.Errorf("failed to fetch album tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Album  any `json:"album"`
			Tracks any `json:"tracks"`
		}{album, tracks}, true)
	}

	r.writePlainHeader(album.Name)
	if album.ReleaseDate != "" {
		r.writePlain("Released: %s\n", album.ReleaseDate)
	}
	r.writePlain("Tracks: %d\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%2d. %s  %s - %s\n", i+1, track.ID, track.PrimaryArtist(), track.Name)
	}

	return nil
}

// Profile prints the authenticated user's profile, playlists and top artists.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	user, err := r.catalog.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile (try 'tunedock auth login'): %w", err)
	}

	playlists, err := r.catalog.UserPlaylists(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch playlists", "error", err)
	}

	artists, err := r.catalog.TopArtists(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch top artists", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			User      any `json:"user"`
			Playlists any `json:"playlists,omitempty"`
			Artists   any `json:"top_artists,omitempty"`
		}{user, playlists, artists}, true)
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	r.writePlainHeader(name)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.Country != "" {
		r.writePlain("Country: %s\n", user.Country)
	}

	if len(playlists) > 0 {
		r.writePlainln("Playlists:")
		for _, pl := range playlists {
			r.writePlain("  %s  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
		}
	}
	if len(artists) > 0 {
		r.writePlainln("Top artists:")
		for _, artist := range artists {
			r.writePlain("  %s\n", artist.Name)
		}
	}

	return nil
}
