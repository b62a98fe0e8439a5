// package formatter provides functions to export playlist and sync data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/shared"
)

// ExportToCSV converts playlist entries to CSV format with columns: ID, Title, Artist, Album, Status, Added
func ExportToCSV(entries []models.PlaylistEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Status", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Name,
			entry.Artist,
			entry.Album,
			string(entry.Status),
			entry.AddedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts playlist entries to Markdown format with optional cover image
func ExportToMarkdown(title string, entries []models.PlaylistEntry, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(entries)))

	buf.WriteString("## Tracks\n\n")
	for i, entry := range entries {
		albumPart := ""
		if entry.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", entry.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, entry.Artist, entry.Name, albumPart, entry.Status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts playlist entries to plain text format
func ExportToText(title string, entries []models.PlaylistEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(entries)))

	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, entry.Artist, entry.Name, entry.Status))
	}

	return buf.Bytes(), nil
}

// HistoryToText renders the sync history as plain text, most recent first.
func HistoryToText(items []models.SyncHistoryItem) []byte {
	var buf bytes.Buffer

	if len(items) == 0 {
		buf.WriteString("No tracks synced yet.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Last %d synced tracks:\n\n", len(items)))
	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, item.Artist, item.Name, item.SyncedAt.Format("2006-01-02 15:04")))
	}

	return buf.Bytes()
}

// DeviceStatusText renders a device probe result as plain text.
func DeviceStatusText(status models.DeviceStatus) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Device: %s\n", status.Address))
	if !status.Connected {
		buf.WriteString("Status: unreachable\n")
		return buf.Bytes()
	}

	buf.WriteString("Status: connected\n")
	buf.WriteString(fmt.Sprintf("Free space: %s / %s\n", shared.FormatBytes(status.FreeSpace), shared.FormatBytes(status.TotalSpace)))

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile string
}

// WriteCSVExport exports playlist entries to a CSV file.
//
// Defaults to {base}_tracks.csv with base "playlist".
func WriteCSVExport(entries []models.PlaylistEntry, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "playlist"
	}

	csvData, err := ExportToCSV(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports playlist entries to Markdown format in a dedicated directory.
//
// The imageURL parameter is optional - if provided, attempts to download the cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(title string, entries []models.PlaylistEntry, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "playlist"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(title, entries, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports playlist entries to plain text format.
//
// Defaults to playlist_tracks.txt as the filename.
func WriteTextExport(title string, entries []models.PlaylistEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "playlist_tracks.txt"
	}

	textData, err := ExportToText(title, entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
