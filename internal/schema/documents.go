package schema

import "github.com/desertthunder/mixtape/internal/models"

func str() *Schema { return &Schema{Type: String} }

func stringList() *Schema { return &Schema{Type: Array, Items: str()} }

func object(required []string, props map[string]*Schema) *Schema {
	return &Schema{Type: Object, Required: required, Properties: props}
}

var (
	// User is one entry of the bulk-load "users" array.
	User = object([]string{"id", "name"}, map[string]*Schema{
		"id":   str(),
		"name": str(),
	})

	// Song is one entry of the bulk-load "songs" array.
	Song = object([]string{"id", "artist", "title"}, map[string]*Schema{
		"id":     str(),
		"artist": str(),
		"title":  str(),
	})

	// Playlist is one entry of the bulk-load "playlists" array.
	Playlist = object([]string{"id", "user_id", "song_ids"}, map[string]*Schema{
		"id":       str(),
		"user_id":  str(),
		"song_ids": stringList(),
	})

	// Catalog is the bulk-load document.
	Catalog = object([]string{"users", "songs", "playlists"}, map[string]*Schema{
		"users":     {Type: Array, Items: User},
		"songs":     {Type: Array, Items: Song},
		"playlists": {Type: Array, Items: Playlist},
	})

	// ChangeList is the outer shape of a change batch. Entries are checked one at a time as they are applied,
	// so an invalid later entry does not stop the ones before it.
	ChangeList = &Schema{Type: Array}

	// Change is the part every change command shares.
	Change = object([]string{"type"}, map[string]*Schema{
		"type": str(),
	})

	AddSongToPlaylist = object([]string{"playlist_id", "song_ids"}, map[string]*Schema{
		"playlist_id": str(),
		"song_ids":    stringList(),
	})

	NewPlaylist = object([]string{"user_id", "song_ids"}, map[string]*Schema{
		"user_id":  str(),
		"song_ids": stringList(),
	})

	RemovePlaylist = object([]string{"playlist_id"}, map[string]*Schema{
		"playlist_id": str(),
	})
)

// ForChange returns the schema for a change command of type t.
func ForChange(t models.ChangeType) (*Schema, bool) {
	switch t {
	case models.ChangeAddSongToPlaylist:
		return AddSongToPlaylist, true
	case models.ChangeNewPlaylist:
		return NewPlaylist, true
	case models.ChangeRemovePlaylist:
		return RemovePlaylist, true
	default:
		return nil, false
	}
}
