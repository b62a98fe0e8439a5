// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/services"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	SearchResults *services.SearchResults
	SearchErr     error
}

func (m *MockCatalog) CheckCredentials(ctx context.Context) bool {
	return true
}

func (m *MockCatalog) Search(ctx context.Context, query string, types []string) (*services.SearchResults, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if m.SearchResults != nil {
		return m.SearchResults, nil
	}
	return &services.SearchResults{}, nil
}

func (m *MockCatalog) Album(ctx context.Context, albumID string) (*models.Album, error) {
	return &models.Album{ID: albumID}, nil
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	return []models.Track{}, nil
}

func (m *MockCatalog) Track(ctx context.Context, trackID string) (*models.Track, error) {
	return &models.Track{ID: trackID}, nil
}

func (m *MockCatalog) Me(ctx context.Context) (*models.User, error) {
	return &models.User{ID: "mock_user"}, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return []models.Playlist{}, nil
}

func (m *MockCatalog) TopArtists(ctx context.Context) ([]models.Artist, error) {
	return []models.Artist{}, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
