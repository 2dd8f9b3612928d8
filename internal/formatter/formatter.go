// package formatter provides functions to export playlist history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/project57/simrai/internal/models"
)

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// ExportToCSV converts playlist history records to CSV with columns:
// Sequence, Name, SpotifyID, URL, Tracks, Visibility, CreatedAt
func ExportToCSV(playlists []*models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Name", "SpotifyID", "URL", "Tracks", "Visibility", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, playlist := range playlists {
		record := []string{
			strconv.Itoa(playlist.Sequence()),
			playlist.Name(),
			playlist.SpotifyID(),
			playlist.URL(),
			strconv.Itoa(playlist.TrackCount()),
			visibility(playlist.Public()),
			playlist.CreatedAt().Format(time.RFC3339),
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

// ExportToMarkdown converts playlist history records to a Markdown document.
func ExportToMarkdown(playlists []*models.Playlist, title string) []byte {
	var buf bytes.Buffer

	if title == "" {
		title = "Playlist History"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n\n", len(playlists)))

	for _, playlist := range playlists {
		buf.WriteString(fmt.Sprintf("%d. **%s**", playlist.Sequence(), playlist.Name()))
		if playlist.Description() != "" {
			buf.WriteString(fmt.Sprintf(" — %s", playlist.Description()))
		}
		buf.WriteString(fmt.Sprintf(" (%s, %d tracks)", visibility(playlist.Public()), playlist.TrackCount()))
		if playlist.URL() != "" {
			buf.WriteString(fmt.Sprintf(" [open](%s)", playlist.URL()))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ExportToText converts playlist history records to plain text.
func ExportToText(playlists []*models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(playlists)))
	for _, playlist := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s (%d tracks, %s)\n",
			playlist.Sequence(), playlist.Name(), playlist.TrackCount(), visibility(playlist.Public())))
	}

	return buf.Bytes()
}

// WriteCSVExport writes playlist history to {base}_history.csv.
//
// Defaults to "playlists" as the base filename.
func WriteCSVExport(playlists []*models.Playlist, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "playlists"
	}

	csvData, err := ExportToCSV(playlists)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	historyFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(historyFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return historyFile, nil
}

// WriteMarkdownExport writes playlist history to {base}_history.md.
func WriteMarkdownExport(playlists []*models.Playlist, baseFilepath, title string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "playlists"
	}

	mdFile := baseFilepath + "_history.md"
	if err := os.WriteFile(mdFile, ExportToMarkdown(playlists, title), 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}
