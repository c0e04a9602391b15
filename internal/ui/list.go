package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixtape/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] with its owner's name to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
	owner    string
}

func (i playlistItem) FilterValue() string { return i.owner + " " + i.playlist.ID }
func (i playlistItem) Title() string       { return "Playlist " + i.playlist.ID }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%s • %d songs", i.owner, len(i.playlist.SongIDs))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string { return i.song.Artist }

// playlistItems builds list items for every playlist in snap, naming owners that are not in the catalog by id.
func playlistItems(snap models.Snapshot) []list.Item {
	users := make(map[string]string, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u.Name
	}

	items := make([]list.Item, len(snap.Playlists))
	for i, p := range snap.Playlists {
		owner, ok := users[p.UserID]
		if !ok {
			owner = "user " + p.UserID
		}
		items[i] = playlistItem{playlist: p, owner: owner}
	}
	return items
}

// songItems builds list items for a playlist's songs in playlist order.
func songItems(snap models.Snapshot, p models.Playlist) []list.Item {
	songs := make(map[string]models.Song, len(snap.Songs))
	for _, s := range snap.Songs {
		songs[s.ID] = s
	}

	items := make([]list.Item, len(p.SongIDs))
	for i, id := range p.SongIDs {
		song, ok := songs[id]
		if !ok {
			song = models.Song{ID: id, Title: id}
		}
		items[i] = songItem{song: song}
	}
	return items
}
