// Package playlist implements the store owning the desired-track list.
//
// The Store is the single writer of the entry collection. Every mutation
// persists the list (minus session-scoped file links) through the durable
// preference store and publishes the full updated snapshot to subscribers.
package playlist

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/repositories"
)

// Store is the single source of truth for the virtual playlist.
type Store struct {
	mu          sync.Mutex
	entries     []models.PlaylistEntry
	subscribers []chan []models.PlaylistEntry
	prefs       *repositories.Prefs
	logger      *log.Logger
	now         func() time.Time
}

// NewStore creates a Store and restores any persisted playlist.
//
// Malformed persisted data is discarded and logged; the store then starts
// empty. Restored entries marked uploading from an interrupted run are
// coerced back to linked status, and since no file reference can survive a
// restart, restored linked entries carry no local path and are not eligible
// for upload until a file is linked again.
func NewStore(prefs *repositories.Prefs, logger *log.Logger) *Store {
	s := &Store{
		prefs:  prefs,
		logger: logger,
		now:    time.Now,
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.prefs == nil {
		return
	}

	var entries []models.PlaylistEntry
	err := s.prefs.GetJSON(repositories.KeyPlaylist, &entries)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("discarding malformed persisted playlist", "err", err)
		s.prefs.Delete(repositories.KeyPlaylist)
		return
	}

	for i := range entries {
		if entries[i].Status == models.StatusUploading {
			entries[i].Status = models.StatusLinked
		}
		if !entries[i].Status.Valid() {
			entries[i].Status = models.StatusMissing
		}
	}
	s.entries = entries
}

// persist writes the current entry list to the durable store.
// File links are excluded by the entry's JSON shape. Caller must hold s.mu.
func (s *Store) persist() {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetJSON(repositories.KeyPlaylist, s.entries); err != nil {
		s.logger.Error("failed to persist playlist", "err", err)
	}
}

// publish sends the current snapshot to every subscriber without blocking.
// Caller must hold s.mu.
func (s *Store) publish() {
	snapshot := s.snapshot()
	for _, ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// snapshot copies the entry list. Caller must hold s.mu.
func (s *Store) snapshot() []models.PlaylistEntry {
	return slices.Clone(s.entries)
}

// Entries returns the current ordered snapshot (insertion order).
func (s *Store) Entries() []models.PlaylistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.PlaylistEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.PlaylistEntry{}, false
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Add inserts a new entry for the track with status missing.
// Adding a track whose id is already present is a no-op.
func (s *Store) Add(track models.Track, album models.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == track.ID {
			return
		}
	}

	s.entries = append(s.entries, models.PlaylistEntry{
		ID:      track.ID,
		Name:    track.Name,
		Artist:  track.PrimaryArtist(),
		Album:   album.Name,
		Cover:   album.CoverURL(),
		AddedAt: s.now(),
		Status:  models.StatusMissing,
	})

	s.persist()
	s.publish()
}

// Remove deletes the entry with the given id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e models.PlaylistEntry) bool {
		return e.ID == id
	})
	if len(s.entries) == before {
		return
	}

	s.persist()
	s.publish()
}

// Clear empties the playlist.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.persist()
	s.publish()
}

// LinkFile attaches a local file to the entry with the given id and marks it
// linked. Linking an absent id is silently ignored. The file path itself is
// never persisted; only the rest of the entry survives a restart.
func (s *Store) LinkFile(id, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].LocalPath = path
			s.entries[i].Status = models.StatusLinked
			s.persist()
			s.publish()
			return
		}
	}

	s.logger.Debug("link requested for unknown entry", "id", id)
}

// SetStatus transitions the entry with the given id to the new status.
// Used by the sync engine for the linked → uploading → uploaded lifecycle and
// the failure revert back to linked.
func (s *Store) SetStatus(id string, status models.EntryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Status = status
			s.persist()
			s.publish()
			return
		}
	}
}

// Subscribe registers an observer of playlist changes. The returned channel
// immediately replays the current snapshot and then receives the full list
// after every mutation. Cancel releases the subscription.
func (s *Store) Subscribe() (<-chan []models.PlaylistEntry, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []models.PlaylistEntry, 8)
	ch <- s.snapshot()
	s.subscribers = append(s.subscribers, ch)

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub == ch {
				s.subscribers = slices.Delete(s.subscribers, i, i+1)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}
