// Package tags extracts title and artist metadata from local audio files.
package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tunedock/tunedock/internal/models"
)

// ReadFile extracts metadata from the audio file at path.
//
// It first tries the embedded tag formats (ID3v2, MP4, FLAC, OGG), then falls
// back to an ID3v1 trailer, and finally derives title and artist from the
// file name when the file carries no readable tags at all.
func ReadFile(path string) (models.TagMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.TagMeta{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return models.TagMeta{}, fmt.Errorf("failed to rewind audio file: %w", seekErr)
		}
		meta, err = tag.ReadID3v1Tags(f)
	}
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) || errors.Is(err, tag.ErrNotID3v1) {
			return FromFilename(path), nil
		}
		return models.TagMeta{}, fmt.Errorf("failed to read tags: %w", err)
	}

	result := models.TagMeta{
		Title:    strings.TrimSpace(meta.Title()),
		Artist:   strings.TrimSpace(meta.Artist()),
		Album:    strings.TrimSpace(meta.Album()),
		HasCover: meta.Picture() != nil,
	}

	// Tagged files can still carry empty fields.
	if result.Title == "" || result.Artist == "" {
		fallback := FromFilename(path)
		if result.Title == "" {
			result.Title = fallback.Title
		}
		if result.Artist == "" {
			result.Artist = fallback.Artist
		}
	}

	return result, nil
}

// FromFilename derives metadata from a file name of the common
// "Artist - Title.ext" shape. Without a separator the whole base name
// becomes the title.
func FromFilename(path string) models.TagMeta {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if artist, title, found := strings.Cut(base, " - "); found {
		return models.TagMeta{
			Title:  strings.TrimSpace(title),
			Artist: strings.TrimSpace(artist),
		}
	}

	return models.TagMeta{Title: strings.TrimSpace(base)}
}
