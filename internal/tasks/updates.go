package tasks

import (
	"fmt"

	"github.com/tunedock/tunedock/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Percent int    // Transfer completion within the current step (0-100)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ProbeDevice Phase = iota
	SelectTracks
	UploadTrack
	RecordResult
	ScanFiles
	MatchTracks
)

func (p Phase) String() string {
	switch p {
	case ProbeDevice:
		return "probe_device"
	case SelectTracks:
		return "select_tracks"
	case UploadTrack:
		return "upload_track"
	case RecordResult:
		return "record_result"
	case ScanFiles:
		return "scan_files"
	case MatchTracks:
		return "match_tracks"
	default:
		return ""
	}
}

func probingUpdate(address string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProbeDevice,
		Message: fmt.Sprintf("Checking device at %s...", address),
	}
}

func selectedUpdate(eligible, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectTracks,
		Total:   eligible,
		Message: fmt.Sprintf("%d of %d tracks ready to transfer", eligible, total),
	}
}

func uploadingUpdate(entry models.PlaylistEntry, step, total, percent int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadTrack,
		Step:    step,
		Total:   total,
		Percent: percent,
		Message: fmt.Sprintf("Uploading %s - %s (%d/%d)", entry.Artist, entry.Name, step, total),
		Data:    entry,
	}
}

func uploadedUpdate(entry models.PlaylistEntry, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordResult,
		Step:    step,
		Total:   total,
		Percent: 100,
		Message: fmt.Sprintf("Uploaded %s - %s", entry.Artist, entry.Name),
		Data:    entry,
	}
}

func uploadFailedUpdate(entry models.PlaylistEntry, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed %s - %s: %v", entry.Artist, entry.Name, err),
		Data:    entry,
	}
}

func scanningUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFiles,
		Message: fmt.Sprintf("Scanning %s for audio files...", dir),
	}
}

func matchedUpdate(entry models.PlaylistEntry, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Message: fmt.Sprintf("Matched %s - %s", entry.Artist, entry.Name),
		Data:    path,
	}
}
