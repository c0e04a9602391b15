// package formatter serializes catalog snapshots to JSON (the canonical output) and to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// DefaultIndent is the number of spaces per nesting level in JSON output.
const DefaultIndent = 4

// ToJSON encodes a snapshot deterministically: keys in alphabetical order, collections in the snapshot's order,
// non-ASCII and HTML characters written as-is, trailing newline.
func ToJSON(snap models.Snapshot, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(normalize(snap)); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return unescapeSeparators(buf.Bytes()), nil
}

// unescapeSeparators writes U+2028 and U+2029 raw. encoding/json escapes them even with HTML escaping off.
// An escape only counts when preceded by an even run of backslashes, so a literal `\u2028` in a value survives.
func unescapeSeparators(data []byte) []byte {
	out := make([]byte, 0, len(data))
	backslashes := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && backslashes%2 == 0 && i+6 <= len(data) {
			switch string(data[i+1 : i+6]) {
			case "u2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "u2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		if data[i] == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		out = append(out, data[i])
	}
	return out
}

// ExportToCSV writes one row per playlist song with columns: playlist_id, user_id, user_name, position, song_id, artist, title
func ExportToCSV(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"playlist_id", "user_id", "user_name", "position", "song_id", "artist", "title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	idx := newIndex(snap)
	for _, p := range snap.Playlists {
		for i, songID := range p.SongIDs {
			song := idx.songs[songID]
			record := []string{
				p.ID,
				p.UserID,
				idx.users[p.UserID].Name,
				strconv.Itoa(i + 1),
				songID,
				song.Artist,
				song.Title,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading per playlist with a numbered song list.
func ExportToMarkdown(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	idx := newIndex(snap)

	buf.WriteString("# Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Users**: %d\n", len(snap.Users)))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(snap.Songs)))
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n", len(snap.Playlists)))

	for _, p := range snap.Playlists {
		buf.WriteString(fmt.Sprintf("\n## Playlist %s\n\n", p.ID))
		buf.WriteString(fmt.Sprintf("**Owner**: %s\n\n", idx.owner(p.UserID)))
		for i, songID := range p.SongIDs {
			song := idx.songs[songID]
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the snapshot as plain text
func ExportToText(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	idx := newIndex(snap)

	buf.WriteString(fmt.Sprintf("Users: %d, Songs: %d, Playlists: %d\n", len(snap.Users), len(snap.Songs), len(snap.Playlists)))

	for _, p := range snap.Playlists {
		buf.WriteString(fmt.Sprintf("\nPlaylist %s (%s, %d songs)\n", p.ID, idx.owner(p.UserID), len(p.SongIDs)))
		for i, songID := range p.SongIDs {
			song := idx.songs[songID]
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
		}
	}

	return buf.Bytes(), nil
}

// Format renders snap in the named format: json, csv, md, or txt.
func Format(snap models.Snapshot, format string, indent int) ([]byte, error) {
	switch format {
	case "", "json":
		return ToJSON(snap, indent)
	case "csv":
		return ExportToCSV(snap)
	case "md", "markdown":
		return ExportToMarkdown(snap)
	case "txt", "text":
		return ExportToText(snap)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Write renders snap and writes it to w.
func Write(w io.Writer, snap models.Snapshot, format string, indent int) error {
	data, err := Format(snap, format, indent)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile renders snap into the file at path, replacing it.
func WriteFile(path string, snap models.Snapshot, format string, indent int) error {
	data, err := Format(snap, format, indent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// normalize replaces nil collections with empty ones so they encode as [] rather than null.
func normalize(snap models.Snapshot) models.Snapshot {
	if snap.Users == nil {
		snap.Users = []models.User{}
	}
	if snap.Songs == nil {
		snap.Songs = []models.Song{}
	}
	if snap.Playlists == nil {
		snap.Playlists = []models.Playlist{}
	}

	playlists := make([]models.Playlist, len(snap.Playlists))
	for i, p := range snap.Playlists {
		if p.SongIDs == nil {
			p.SongIDs = []string{}
		}
		playlists[i] = p
	}
	snap.Playlists = playlists

	return snap
}

type index struct {
	users map[string]models.User
	songs map[string]models.Song
}

func newIndex(snap models.Snapshot) index {
	idx := index{
		users: make(map[string]models.User, len(snap.Users)),
		songs: make(map[string]models.Song, len(snap.Songs)),
	}
	for _, u := range snap.Users {
		idx.users[u.ID] = u
	}
	for _, s := range snap.Songs {
		idx.songs[s.ID] = s
	}
	return idx
}

// owner names a playlist's user, falling back to the bare id for users created without a catalog entry.
func (idx index) owner(userID string) string {
	if u, ok := idx.users[userID]; ok {
		return u.Name
	}
	return "user " + userID
}
