package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tunedock/tunedock/internal/formatter"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/shared"
	"github.com/tunedock/tunedock/internal/tags"
	"github.com/tunedock/tunedock/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints the virtual playlist with entry statuses.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	entries := r.store.Entries()

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("Playlist is empty. Add tracks with 'tunedock playlist add <track-id>'\n")
	}

	r.writePlainHeader(fmt.Sprintf("Virtual Playlist (%d tracks)", len(entries)))
	for i, entry := range entries {
		marker := " "
		switch {
		case entry.Status == models.StatusUploaded:
			marker = "✓"
		case entry.Linked():
			marker = "→"
		}
		r.writePlain("%2d. %s %s  %s - %s [%s]\n", i+1, marker, entry.ID, entry.Artist, entry.Name, entry.Status)
	}

	return nil
}

// PlaylistAdd fetches a track from the catalog and inserts it into the playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	trackID := cmd.StringArg("track-id")
	if trackID == "" {
		return fmt.Errorf("%w: track id required", shared.ErrMissingArgument)
	}

	track, err := r.catalog.Track(ctx, trackID)
	if err != nil {
		return fmt.Errorf("failed to fetch track: %w", err)
	}

	before := r.store.Len()
	r.store.Add(*track, track.Album)
	if r.store.Len() == before {
		return r.writePlain("Already in playlist: %s - %s\n", track.PrimaryArtist(), track.Name)
	}

	return r.writePlain("✓ Added %s - %s\n", track.PrimaryArtist(), track.Name)
}

// PlaylistAddAlbum inserts every track of an album into the playlist.
func (r *Runner) PlaylistAddAlbum(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	albumID := cmd.StringArg("album-id")
	if albumID == "" {
		return fmt.Errorf("%w: album id required", shared.ErrMissingArgument)
	}

	album, err := r.catalog.Album(ctx, albumID)
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
	}

	albumTracks, err := r.catalog.AlbumTracks(ctx, albumID)
	if err != nil {
		return fmt.Errorf("failed to fetch album tracks: %w", err)
	}

	added := 0
	for _, track := range albumTracks {
		before := r.store.Len()
		r.store.Add(track, *album)
		if r.store.Len() > before {
			added++
		}
	}

	return r.writePlain("✓ Added %d of %d tracks from %s\n", added, len(albumTracks), album.Name)
}

// PlaylistRemove deletes an entry from the playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: entry id required", shared.ErrMissingArgument)
	}

	entry, ok := r.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	r.store.Remove(id)
	return r.writePlain("✓ Removed %s - %s\n", entry.Artist, entry.Name)
}

// PlaylistClear empties the playlist.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	count := r.store.Len()
	r.store.Clear()
	return r.writePlain("✓ Removed %d entries\n", count)
}

// PlaylistLink attaches a local audio file to an entry, verifying the file
// exists and reading its tags for confirmation output.
func (r *Runner) PlaylistLink(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	path := cmd.StringArg("path")
	if id == "" || path == "" {
		return fmt.Errorf("%w: entry id and file path required", shared.ErrMissingArgument)
	}

	entry, ok := r.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	meta, err := tags.ReadFile(path)
	if err != nil {
		r.logger.Warn("could not read tags", "path", path, "error", err)
	} else if meta.Title != "" {
		r.logger.Info("linking file", "title", meta.Title, "artist", meta.Artist)
	}

	r.store.LinkFile(id, path)
	return r.writePlain("✓ Linked %s - %s to %s\n", entry.Artist, entry.Name, path)
}

// PlaylistMatch scans a directory and links files to entries by their tags.
func (r *Runner) PlaylistMatch(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.StringArg("dir")
	if dir == "" {
		return fmt.Errorf("%w: directory required", shared.ErrMissingArgument)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.MatchFiles(ctx, progress, dir)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	r.writePlain("\nScanned %d files, linked %d entries\n", result.Scanned, result.Linked)
	if len(result.Unmatched) > 0 {
		r.writePlainln("Unmatched files:")
		for _, path := range result.Unmatched {
			r.writePlain("  %s\n", path)
		}
	}

	return nil
}

// PlaylistExport writes the playlist to csv, markdown or text.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	entries := r.store.Entries()
	output := cmd.String("output")

	const title = "Virtual Playlist"

	switch cmd.String("format") {
	case "csv":
		result, err := formatter.WriteCSVExport(entries, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", result.TracksFile)
	case "markdown", "md":
		cover := ""
		if len(entries) > 0 {
			cover = entries[0].Cover
		}
		result, err := formatter.WriteMarkdownExport(title, entries, output, cover)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", result.Directory)
	case "text", "txt":
		path, err := formatter.WriteTextExport(title, entries, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, cmd.String("format"))
	}
}
