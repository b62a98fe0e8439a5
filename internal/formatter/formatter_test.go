package formatter

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tunedock/tunedock/internal/models"
)

func sampleEntries() []models.PlaylistEntry {
	added := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []models.PlaylistEntry{
		{ID: "t1", Name: "One More Time", Artist: "Daft Punk", Album: "Discovery", Status: models.StatusUploaded, AddedAt: added},
		{ID: "t2", Name: "Aerodynamic", Artist: "Daft Punk", Album: "Discovery", Status: models.StatusLinked, AddedAt: added},
		{ID: "t3", Name: "Nightvision", Artist: "Daft Punk", Status: models.StatusMissing, AddedAt: added},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleEntries())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV produced: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][1] != "Title" || records[0][4] != "Status" {
		t.Errorf("unexpected headers: %v", records[0])
	}
	if records[1][1] != "One More Time" || records[1][4] != "uploaded" {
		t.Errorf("unexpected first row: %v", records[1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown("Road Trip", sampleEntries(), "cover.jpg")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	md := string(data)
	for _, want := range []string{
		"# Road Trip",
		"![Cover](cover.jpg)",
		"**Tracks**: 3",
		"1. Daft Punk - One More Time (Discovery) [uploaded]",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	// No album part when the album is empty
	if strings.Contains(md, "Nightvision (") {
		t.Error("empty album should not render parentheses")
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText("Road Trip", sampleEntries())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlist: Road Trip") {
		t.Errorf("missing title:\n%s", text)
	}
	if !strings.Contains(text, "2. Daft Punk - Aerodynamic [linked]") {
		t.Errorf("missing track line:\n%s", text)
	}
}

func TestHistoryToText(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		text := string(HistoryToText(nil))
		if !strings.Contains(text, "No tracks synced yet") {
			t.Errorf("unexpected empty rendering: %s", text)
		}
	})

	t.Run("recent items", func(t *testing.T) {
		items := []models.SyncHistoryItem{
			{Name: "Innuendo", Artist: "Queen", SyncedAt: time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)},
		}
		text := string(HistoryToText(items))
		if !strings.Contains(text, "1. Queen - Innuendo (2026-08-27 09:30)") {
			t.Errorf("unexpected rendering: %s", text)
		}
	})
}

func TestDeviceStatusText(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		text := string(DeviceStatusText(models.DeviceStatus{
			Connected:  true,
			Address:    "192.168.4.1",
			FreeSpace:  512 * 1024 * 1024,
			TotalSpace: 8 * 1024 * 1024 * 1024,
		}))
		if !strings.Contains(text, "Status: connected") {
			t.Errorf("unexpected rendering: %s", text)
		}
		if !strings.Contains(text, "512.0 MB / 8.0 GB") {
			t.Errorf("expected human readable sizes: %s", text)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		text := string(DeviceStatusText(models.DeviceStatus{Address: "192.168.4.1"}))
		if !strings.Contains(text, "Status: unreachable") {
			t.Errorf("unexpected rendering: %s", text)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "imagedata")
	}))
	defer server.Close()

	t.Run("success", func(t *testing.T) {
		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if string(data) != "imagedata" {
			t.Errorf("unexpected data: %q", data)
		}
	})

	t.Run("empty url", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})
}

func TestWriteCSVExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "mylist")

	result, err := WriteCSVExport(sampleEntries(), base)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if result.TracksFile != base+"_tracks.csv" {
		t.Errorf("unexpected file name: %s", result.TracksFile)
	}
	if _, err := os.Stat(result.TracksFile); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")

	result, err := WriteMarkdownExport("Road Trip", sampleEntries(), dir, "")
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if result.Directory != dir {
		t.Errorf("unexpected directory: %s", result.Directory)
	}
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatalf("expected README.md: %v", err)
	}
	if !strings.Contains(string(data), "# Road Trip") {
		t.Error("README missing playlist title")
	}
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")

	written, err := WriteTextExport("Road Trip", sampleEntries(), path)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if written != path {
		t.Errorf("unexpected path: %s", written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
}
