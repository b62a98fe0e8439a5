package playlist

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/repositories"
	"github.com/tunedock/tunedock/internal/shared"
)

func testPrefs(t *testing.T) *repositories.Prefs {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return repositories.NewPrefs(db)
}

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func track(id, name, artist string) models.Track {
	return models.Track{
		ID:      id,
		Name:    name,
		Artists: []models.Artist{{Name: artist}},
	}
}

var album = models.Album{
	ID:     "al1",
	Name:   "Test Album",
	Images: []models.Image{{URL: "https://img/cover.jpg"}},
}

func TestStore_AddIsIdempotent(t *testing.T) {
	store := NewStore(testPrefs(t), testLogger())

	store.Add(track("t1", "Song One", "Artist"), album)
	store.Add(track("t2", "Song Two", "Artist"), album)
	before := store.Entries()

	// Same id again, even with different metadata
	store.Add(track("t1", "Renamed", "Other"), album)

	after := store.Entries()
	if len(after) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("entry %d changed: %+v != %+v", i, after[i], before[i])
		}
	}
}

func TestStore_AddDenormalizesMetadata(t *testing.T) {
	store := NewStore(testPrefs(t), testLogger())

	store.Add(track("t1", "Song One", "Artist"), album)

	entry, ok := store.Get("t1")
	if !ok {
		t.Fatal("expected entry t1")
	}
	if entry.Name != "Song One" || entry.Artist != "Artist" || entry.Album != "Test Album" {
		t.Errorf("unexpected entry metadata: %+v", entry)
	}
	if entry.Cover != "https://img/cover.jpg" {
		t.Errorf("expected cover copied from album, got %q", entry.Cover)
	}
	if entry.Status != models.StatusMissing {
		t.Errorf("new entries start missing, got %s", entry.Status)
	}
	if entry.AddedAt.IsZero() {
		t.Error("expected AddedAt to be set")
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	store := NewStore(testPrefs(t), testLogger())

	store.Add(track("t1", "One", "A"), album)
	store.Add(track("t2", "Two", "A"), album)

	store.Remove("t1")
	if store.Len() != 1 {
		t.Errorf("expected 1 entry after remove, got %d", store.Len())
	}

	// Absent id is a no-op
	store.Remove("nope")
	if store.Len() != 1 {
		t.Errorf("removing absent id changed the store")
	}

	store.Clear()
	if store.Len() != 0 {
		t.Errorf("expected empty store after clear, got %d", store.Len())
	}
}

func TestStore_LinkFile(t *testing.T) {
	store := NewStore(testPrefs(t), testLogger())
	store.Add(track("t1", "One", "A"), album)

	store.LinkFile("t1", "/music/one.mp3")

	entry, _ := store.Get("t1")
	if entry.Status != models.StatusLinked {
		t.Errorf("expected linked status, got %s", entry.Status)
	}
	if entry.LocalPath != "/music/one.mp3" {
		t.Errorf("expected local path, got %q", entry.LocalPath)
	}
	if !entry.Linked() {
		t.Error("entry with file and linked status should be upload-eligible")
	}

	// Unknown id is silently ignored
	store.LinkFile("nope", "/music/two.mp3")
	if store.Len() != 1 {
		t.Error("linking unknown id changed the store")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	prefs := testPrefs(t)

	store := NewStore(prefs, testLogger())
	store.Add(track("t1", "One", "A"), album)
	store.Add(track("t2", "Two", "B"), album)
	store.Add(track("t3", "Three", "C"), album)
	store.LinkFile("t2", "/music/two.mp3")
	store.SetStatus("t3", models.StatusUploaded)

	// Reload from the same durable store, as after a process restart.
	reloaded := NewStore(prefs, testLogger())

	entries := reloaded.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries after reload, got %d", len(entries))
	}

	for i, want := range []struct {
		id     string
		status models.EntryStatus
	}{
		{"t1", models.StatusMissing},
		{"t2", models.StatusLinked},
		{"t3", models.StatusUploaded},
	} {
		if entries[i].ID != want.id {
			t.Errorf("entry %d: expected id %s, got %s", i, want.id, entries[i].ID)
		}
		if entries[i].Status != want.status {
			t.Errorf("entry %s: expected status %s, got %s", want.id, want.status, entries[i].Status)
		}
	}

	// The file link is session-scoped: status survives but the path does
	// not, so the entry is no longer upload-eligible.
	stale, _ := reloaded.Get("t2")
	if stale.LocalPath != "" {
		t.Errorf("local path must not survive a reload, got %q", stale.LocalPath)
	}
	if stale.Linked() {
		t.Error("stale linked entry must not be upload-eligible")
	}
}

func TestStore_ReloadCoercesUploading(t *testing.T) {
	prefs := testPrefs(t)

	// Simulate a run interrupted mid-transfer.
	entries := []models.PlaylistEntry{
		{ID: "t1", Name: "One", Artist: "A", Status: models.StatusUploading},
	}
	if err := prefs.SetJSON(repositories.KeyPlaylist, entries); err != nil {
		t.Fatalf("failed to seed playlist: %v", err)
	}

	store := NewStore(prefs, testLogger())

	entry, ok := store.Get("t1")
	if !ok {
		t.Fatal("expected entry t1 after reload")
	}
	if entry.Status != models.StatusLinked {
		t.Errorf("expected uploading coerced to linked, got %s", entry.Status)
	}
}

func TestStore_MalformedPersistedDataDiscarded(t *testing.T) {
	prefs := testPrefs(t)
	if err := prefs.Set(repositories.KeyPlaylist, "{definitely not json"); err != nil {
		t.Fatalf("failed to seed malformed playlist: %v", err)
	}

	store := NewStore(prefs, testLogger())

	if store.Len() != 0 {
		t.Errorf("expected empty store after malformed load, got %d entries", store.Len())
	}

	// The store stays usable afterwards.
	store.Add(track("t1", "One", "A"), album)
	if store.Len() != 1 {
		t.Error("store should accept entries after discarding malformed data")
	}
}

func TestStore_SubscribeReplaysAndNotifies(t *testing.T) {
	store := NewStore(testPrefs(t), testLogger())
	store.Add(track("t1", "One", "A"), album)

	ch, cancel := store.Subscribe()
	defer cancel()

	initial := <-ch
	if len(initial) != 1 {
		t.Fatalf("expected initial replay with 1 entry, got %d", len(initial))
	}

	store.Add(track("t2", "Two", "B"), album)

	updated := <-ch
	if len(updated) != 2 {
		t.Fatalf("expected notification with 2 entries, got %d", len(updated))
	}
}
