package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CacheList prints the locally cached catalog tracks.
//
// Tracks are cached automatically during 'tunedock search'.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	tracks, err := r.cache.List()
	if err != nil {
		return fmt.Errorf("failed to list cached tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		return r.writePlain("No cached tracks. Run 'tunedock search' to populate the cache.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Cached Tracks (%d)", len(tracks)))
	for _, track := range tracks {
		r.writePlain("%s  %s - %s\n", track.ID, track.Artist, track.Name)
	}

	return nil
}

// CacheClear empties the local track cache.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return r.writePlain("✓ Track cache cleared\n")
}

// cacheCommand handles the local track cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local track cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached catalog tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached tracks",
				Action: r.CacheClear,
			},
		},
	}
}
