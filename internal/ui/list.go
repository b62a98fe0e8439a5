package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tunedock/tunedock/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.PlaylistEntry] to implement [list.Item].
type entryItem struct {
	entry models.PlaylistEntry
}

func (i entryItem) FilterValue() string { return i.entry.Name }
func (i entryItem) Title() string       { return i.entry.Name }
func (i entryItem) Description() string {
	desc := i.entry.Artist
	if i.entry.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.Album)
	}
	return fmt.Sprintf("%s • %s", desc, statusLabel(i.entry))
}

// statusLabel renders an entry's status for list display.
func statusLabel(entry models.PlaylistEntry) string {
	switch entry.Status {
	case models.StatusUploaded:
		return "on device"
	case models.StatusUploading:
		return "uploading"
	case models.StatusLinked:
		if entry.LocalPath == "" {
			return "needs re-link"
		}
		return "ready"
	default:
		return "no file"
	}
}
