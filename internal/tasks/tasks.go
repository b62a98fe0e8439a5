package tasks

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/shared"
	"github.com/tunedock/tunedock/internal/tags"
)

// EntryStore defines the playlist operations the engine needs.
// Implemented by [playlist.Store].
type EntryStore interface {
	Entries() []models.PlaylistEntry
	SetStatus(id string, status models.EntryStatus)
	LinkFile(id, path string)
}

// Uploader defines the device operations the engine needs.
// Implemented by [device.Transport].
type Uploader interface {
	Probe(ctx context.Context) models.DeviceStatus
	Upload(ctx context.Context, content io.Reader, remoteName string, onProgress func(pct int)) error
	RecordHistory(item models.SyncHistoryItem)
}

// EntryResult records the outcome of one entry's transfer attempt.
type EntryResult struct {
	Entry models.PlaylistEntry // Entry as it was when the attempt started
	Err   error                // nil on success
}

// SyncRunResult contains all data from a full device sync.
type SyncRunResult struct {
	Device   models.DeviceStatus // Probe result the sync ran against
	Results  []EntryResult       // Per-entry outcomes in transfer order
	Uploaded int                 // Number of entries transferred
	Failed   int                 // Number of entries that failed and were reverted
	Skipped  int                 // Entries not eligible for upload
}

// MatchRunResult contains all data from a directory match pass.
type MatchRunResult struct {
	Scanned   int      // Audio files inspected
	Linked    int      // Entries that gained a file link
	Unmatched []string // Scanned files that matched no entry
}

// SyncEngine defines operations for moving playlist entries onto the device.
type SyncEngine interface {
	// SyncAll transfers every upload-eligible entry to the device, one at a
	// time, tolerating per-entry failures.
	SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error)

	// MatchFiles scans dir for audio files and links them to missing entries
	// by normalized title and artist.
	MatchFiles(ctx context.Context, progress chan<- ProgressUpdate, dir string) (*MatchRunResult, error)
}

// DeviceEngine implements SyncEngine against the playlist store and the
// device transport.
type DeviceEngine struct {
	store     EntryStore
	transport Uploader
	logger    *log.Logger
}

// NewDeviceEngine creates a DeviceEngine with the provided dependencies.
func NewDeviceEngine(store EntryStore, transport Uploader, logger *log.Logger) *DeviceEngine {
	return &DeviceEngine{
		store:     store,
		transport: transport,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *DeviceEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncAll transfers every upload-eligible entry to the device.
//
// The device is probed before any bytes move; an unreachable device aborts
// the whole run with [shared.ErrDeviceUnreachable]. Eligible entries are
// transferred strictly sequentially in playlist order. Each entry moves
// through uploading to uploaded; a failed transfer reverts its entry to
// linked and the run continues with the next one. Completed transfers are
// recorded in the sync history. An empty eligible set is a successful no-op.
func (e *DeviceEngine) SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error) {
	status := e.transport.Probe(ctx)
	e.sendProgress(progress, probingUpdate(status.Address))
	if !status.Connected {
		return nil, fmt.Errorf("%w: no response from %s", shared.ErrDeviceUnreachable, status.Address)
	}

	entries := e.store.Entries()
	var eligible []models.PlaylistEntry
	for _, entry := range entries {
		if entry.Linked() {
			eligible = append(eligible, entry)
		}
	}
	e.sendProgress(progress, selectedUpdate(len(eligible), len(entries)))

	result := &SyncRunResult{
		Device:  status,
		Skipped: len(entries) - len(eligible),
	}
	if len(eligible) == 0 {
		return result, nil
	}

	total := len(eligible)
	for i, entry := range eligible {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		step := i + 1
		err := e.uploadOne(ctx, entry, step, total, progress)
		result.Results = append(result.Results, EntryResult{Entry: entry, Err: err})
		if err != nil {
			result.Failed++
			e.store.SetStatus(entry.ID, models.StatusLinked)
			e.logger.Error("transfer failed", "track", entry.Name, "err", err)
			e.sendProgress(progress, uploadFailedUpdate(entry, step, total, err))
			continue
		}

		result.Uploaded++
		e.store.SetStatus(entry.ID, models.StatusUploaded)
		e.transport.RecordHistory(models.SyncHistoryItem{
			ID:     entry.ID,
			Name:   entry.Name,
			Artist: entry.Artist,
			Cover:  entry.Cover,
		})
		e.sendProgress(progress, uploadedUpdate(entry, step, total))
	}

	return result, nil
}

// uploadOne transfers a single entry, reporting per-file progress.
func (e *DeviceEngine) uploadOne(ctx context.Context, entry models.PlaylistEntry, step, total int, progress chan<- ProgressUpdate) error {
	e.store.SetStatus(entry.ID, models.StatusUploading)
	e.sendProgress(progress, uploadingUpdate(entry, step, total, 0))

	f, err := os.Open(entry.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNoLinkedFile, err)
	}
	defer f.Close()

	remoteName := shared.SafeRemoteName(entry.Artist, entry.Name)
	return e.transport.Upload(ctx, f, remoteName, func(pct int) {
		e.sendProgress(progress, uploadingUpdate(entry, step, total, pct))
	})
}

// audio file extensions the matcher considers
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
}

// MatchFiles scans dir for audio files and links each one to a playlist entry
// with the same normalized title and artist.
//
// Only entries without a linked file are considered, so an existing link is
// never overwritten. Files whose tags match no entry are reported back as
// unmatched. Unreadable files are logged and skipped.
func (e *DeviceEngine) MatchFiles(ctx context.Context, progress chan<- ProgressUpdate, dir string) (*MatchRunResult, error) {
	e.sendProgress(progress, scanningUpdate(dir))

	wanted := make(map[string]models.PlaylistEntry)
	for _, entry := range e.store.Entries() {
		if entry.LocalPath == "" && entry.Status != models.StatusUploaded {
			wanted[shared.NormalizeTrackKey(entry.Name, entry.Artist)] = entry
		}
	}

	result := &MatchRunResult{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		result.Scanned++
		meta, err := tags.ReadFile(path)
		if err != nil {
			e.logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}

		key := shared.NormalizeTrackKey(meta.Title, meta.Artist)
		entry, ok := wanted[key]
		if !ok {
			result.Unmatched = append(result.Unmatched, path)
			return nil
		}

		e.store.LinkFile(entry.ID, path)
		delete(wanted, key)
		result.Linked++
		e.sendProgress(progress, matchedUpdate(entry, path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return result, nil
}
