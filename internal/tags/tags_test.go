package tags

import (
	"os"
	"path/filepath"
	"testing"
)

// id3v1File writes an audio file ending in a 128-byte ID3v1 trailer.
func id3v1File(t *testing.T, name, title, artist, album string) string {
	t.Helper()

	trailer := make([]byte, 128)
	copy(trailer[0:3], "TAG")
	copy(trailer[3:33], title)
	copy(trailer[33:63], artist)
	copy(trailer[63:93], album)

	data := append(make([]byte, 512), trailer...)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestReadFile_ID3v1(t *testing.T) {
	path := id3v1File(t, "song.mp3", "T.N.T.", "AC/DC", "High Voltage")

	meta, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if meta.Title != "T.N.T." {
		t.Errorf("expected title T.N.T., got %q", meta.Title)
	}
	if meta.Artist != "AC/DC" {
		t.Errorf("expected artist AC/DC, got %q", meta.Artist)
	}
	if meta.Album != "High Voltage" {
		t.Errorf("expected album High Voltage, got %q", meta.Album)
	}
}

func TestReadFile_UntaggedFallsBackToFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Daft Punk - One More Time.mp3")
	if err := os.WriteFile(path, make([]byte, 256), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	meta, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if meta.Title != "One More Time" {
		t.Errorf("expected title from filename, got %q", meta.Title)
	}
	if meta.Artist != "Daft Punk" {
		t.Errorf("expected artist from filename, got %q", meta.Artist)
	}
}

func TestReadFile_MissingFile(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		title  string
		artist string
	}{
		{"artist and title", "/music/Queen - Bohemian Rhapsody.mp3", "Bohemian Rhapsody", "Queen"},
		{"title only", "/music/Bohemian Rhapsody.mp3", "Bohemian Rhapsody", ""},
		{"extra whitespace", "/music/Queen -  Under Pressure .mp3", "Under Pressure", "Queen"},
		{"no extension", "/music/track", "track", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := FromFilename(tc.path)
			if meta.Title != tc.title {
				t.Errorf("expected title %q, got %q", tc.title, meta.Title)
			}
			if meta.Artist != tc.artist {
				t.Errorf("expected artist %q, got %q", tc.artist, meta.Artist)
			}
		})
	}
}
