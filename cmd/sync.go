package main

import (
	"context"
	"fmt"

	"github.com/tunedock/tunedock/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync uploads every ready playlist entry to the device, printing progress.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		lastLine := ""
		for update := range progress {
			// Per-file percentages share a phase and step; only print
			// state changes to keep plain output readable.
			line := update.Message
			if update.Phase == tasks.UploadTrack {
				line = fmt.Sprintf("%s %d%%", update.Message, update.Percent)
			}
			if line != lastLine {
				r.writePlain("%s\n", line)
				lastLine = line
			}
		}
	}()

	result, err := r.engine.SyncAll(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlainln("Sync complete: %d uploaded, %d failed, %d skipped", result.Uploaded, result.Failed, result.Skipped)
	for _, entry := range result.Results {
		if entry.Err != nil {
			r.writePlain("  ✗ %s - %s: %v\n", entry.Entry.Artist, entry.Entry.Name, entry.Err)
		}
	}

	return nil
}
