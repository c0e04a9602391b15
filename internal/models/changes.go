package models

// ChangeType is the "type" discriminator of a change command.
type ChangeType string

const (
	ChangeAddSongToPlaylist ChangeType = "add_song_to_playlist"
	ChangeNewPlaylist       ChangeType = "new_playlist"
	ChangeRemovePlaylist    ChangeType = "remove_playlist"
)

// ChangeTypes lists the recognized change kinds in documentation order.
var ChangeTypes = []ChangeType{ChangeAddSongToPlaylist, ChangeNewPlaylist, ChangeRemovePlaylist}

// Change is implemented by every typed change command.
type Change interface {
	Type() ChangeType
}

// AddSongsChange appends songs to an existing playlist.
type AddSongsChange struct {
	PlaylistID string   `json:"playlist_id"`
	SongIDs    []string `json:"song_ids"`
}

// NewPlaylistChange creates a playlist with a generated id.
type NewPlaylistChange struct {
	UserID  string   `json:"user_id"`
	SongIDs []string `json:"song_ids"`
}

// RemovePlaylistChange deletes a playlist.
type RemovePlaylistChange struct {
	PlaylistID string `json:"playlist_id"`
}

func (AddSongsChange) Type() ChangeType       { return ChangeAddSongToPlaylist }
func (NewPlaylistChange) Type() ChangeType    { return ChangeNewPlaylist }
func (RemovePlaylistChange) Type() ChangeType { return ChangeRemovePlaylist }
