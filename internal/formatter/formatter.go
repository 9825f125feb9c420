// package formatter renders recommended tracks as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/seedmix/internal/models"
	"github.com/desertthunder/seedmix/internal/shared"
)

// Format names an output format of [Render].
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat resolves a format name; "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, name)
	}
}

// spotifyTrack holds the fields of a Web API track object the summaries need.
type spotifyTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name string `json:"name"`
	} `json:"album"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Summarize flattens raw track objects into [models.Track] values, in order.
func Summarize(raw []json.RawMessage) ([]models.Track, error) {
	tracks := make([]models.Track, 0, len(raw))
	for i, data := range raw {
		var t spotifyTrack
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("%w: track %d: %v", shared.ErrInvalidInput, i, err)
		}

		names := make([]string, 0, len(t.Artists))
		for _, a := range t.Artists {
			names = append(names, a.Name)
		}

		tracks = append(tracks, models.Track{
			ID:       t.ID,
			Title:    t.Name,
			Artist:   strings.Join(names, ", "),
			Album:    t.Album.Name,
			Duration: t.DurationMS / 1000,
			ISRC:     t.ExternalIDs.ISRC,
			URL:      t.ExternalURLs.Spotify,
		})
	}
	return tracks, nil
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Render encodes rec in the given non-JSON format.
func Render(format Format, rec *models.Recommendations) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(rec.Tracks)
	case FormatMarkdown:
		return ExportToMarkdown(rec)
	case FormatText:
		return ExportToText(rec)
	default:
		return nil, fmt.Errorf("%w: format %q is not rendered by formatter", shared.ErrInvalidInput, format)
	}
}

// ExportToCSV converts tracks to CSV format with columns: ID, Title, Artist, Album, Duration, ISRC
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.ISRC,
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

// ExportToMarkdown converts a recommendation run to a Markdown document with a numbered track list
func ExportToMarkdown(rec *models.Recommendations) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Recommendations for %s\n\n", strings.Join(rec.Seeds[:], ", "))
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(rec.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range rec.Tracks {
		title := track.Title
		if track.URL != "" {
			title = fmt.Sprintf("[%s](%s)", track.Title, track.URL)
		}
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Artist, title, albumPart, FormatDuration(track.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a recommendation run to plain text
func ExportToText(rec *models.Recommendations) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Seeds: %s\n", strings.Join(rec.Seeds[:], ", "))
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(rec.Tracks))

	for i, track := range rec.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}
