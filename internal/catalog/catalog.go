// Package catalog owns the users, songs, and playlists of one run and enforces the integrity rules between them.
//
// # Invariants
//
// After every successful operation:
//   - ids are unique within each collection
//   - every playlist's user id was a known user when the playlist was loaded
//   - every id in a playlist's song ids names a known song
//   - every playlist has at least one song and none twice
//
// Users and songs only enter through [Catalog.Load]. Playlists enter through Load or [Catalog.CreatePlaylist],
// grow through [Catalog.AddSongsToPlaylist], and leave through [Catalog.RemovePlaylist].
//
// # Generated ids
//
// Loaded playlist ids must be integers. The catalog remembers one past the largest and hands out ids from there,
// so generated ids never collide with loaded ones and are never reused after a removal.
//
// A Catalog is not safe for concurrent use.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Catalog is the in-memory source of truth for one run.
type Catalog struct {
	users     map[string]models.User
	songs     map[string]models.Song
	playlists map[string]*models.Playlist
	nextID    int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		users:     make(map[string]models.User),
		songs:     make(map[string]models.Song),
		playlists: make(map[string]*models.Playlist),
	}
}

// Load ingests a schema-valid bulk-load document.
//
// Users and songs are inserted first, a repeated id keeping the last entry. Playlists are then checked in input order;
// the first playlist with an unknown user, no songs, an unknown song, or a non-integer id aborts the load.
// Work is staged on a copy, so a failed load leaves the catalog as it was.
func (c *Catalog) Load(doc *models.Document) error {
	staged := c.clone()

	for _, u := range doc.Users {
		staged.users[u.ID] = u
	}
	for _, s := range doc.Songs {
		staged.songs[s.ID] = s
	}

	for i, p := range doc.Playlists {
		if _, ok := staged.users[p.UserID]; !ok {
			return shared.ReferenceError("playlist %s: user %s does not exist", p.ID, p.UserID)
		}
		if len(p.SongIDs) == 0 {
			return shared.EmptyPlaylistError("playlist %s must have at least one song", p.ID)
		}
		if err := staged.checkSongs(p.SongIDs); err != nil {
			return fmt.Errorf("playlist %s: %w", p.ID, err)
		}

		n, err := strconv.Atoi(p.ID)
		if err != nil {
			return shared.SchemaError(fmt.Sprintf("/playlists/%d/id", i), "playlist id %q is not an integer", p.ID)
		}
		if n == math.MaxInt {
			return shared.SchemaError(fmt.Sprintf("/playlists/%d/id", i), "playlist id %q leaves no room for new ids", p.ID)
		}

		staged.playlists[p.ID] = &models.Playlist{ID: p.ID, UserID: p.UserID, SongIDs: appendMissing(nil, p.SongIDs)}
		if n+1 > staged.nextID {
			staged.nextID = n + 1
		}
	}

	*c = *staged
	return nil
}

// AddSongsToPlaylist appends each of songIDs not already in the playlist, keeping the given order.
//
// Every song id is checked before the playlist is touched, so a [shared.ErrReference] failure adds nothing.
func (c *Catalog) AddSongsToPlaylist(playlistID string, songIDs []string) error {
	p, ok := c.playlists[playlistID]
	if !ok {
		return shared.NotFoundError("playlist %s does not exist", playlistID)
	}
	if len(songIDs) == 0 {
		return shared.EmptyPlaylistError("no songs to add to playlist %s", playlistID)
	}
	if err := c.checkSongs(songIDs); err != nil {
		return err
	}

	p.SongIDs = appendMissing(p.SongIDs, songIDs)
	return nil
}

// CreatePlaylist inserts a playlist for userID with a generated id and returns that id.
//
// The id is allocated before validation, so a failed call still consumes it.
// userID is not checked against the known users; only bulk load enforces that reference.
func (c *Catalog) CreatePlaylist(userID string, songIDs []string) (string, error) {
	id, err := c.allocateID()
	if err != nil {
		return "", err
	}

	if len(songIDs) == 0 {
		return "", shared.EmptyPlaylistError("new playlist %s must have at least one song", id)
	}
	if err := c.checkSongs(songIDs); err != nil {
		return "", err
	}

	c.playlists[id] = &models.Playlist{ID: id, UserID: userID, SongIDs: appendMissing(nil, songIDs)}
	return id, nil
}

// RemovePlaylist deletes the playlist with the given id.
func (c *Catalog) RemovePlaylist(playlistID string) error {
	if _, ok := c.playlists[playlistID]; !ok {
		return shared.NotFoundError("playlist %s does not exist", playlistID)
	}
	delete(c.playlists, playlistID)
	return nil
}

// Snapshot copies the three collections out, each sorted by id in byte order.
func (c *Catalog) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Users:     make([]models.User, 0, len(c.users)),
		Songs:     make([]models.Song, 0, len(c.songs)),
		Playlists: make([]models.Playlist, 0, len(c.playlists)),
	}

	for _, id := range sortedKeys(c.users) {
		snap.Users = append(snap.Users, c.users[id])
	}
	for _, id := range sortedKeys(c.songs) {
		snap.Songs = append(snap.Songs, c.songs[id])
	}
	for _, id := range sortedKeys(c.playlists) {
		snap.Playlists = append(snap.Playlists, c.playlists[id].Clone())
	}

	return snap
}

// Playlist returns a copy of the playlist with the given id.
func (c *Catalog) Playlist(id string) (models.Playlist, bool) {
	p, ok := c.playlists[id]
	if !ok {
		return models.Playlist{}, false
	}
	return p.Clone(), true
}

// User returns the user with the given id.
func (c *Catalog) User(id string) (models.User, bool) {
	u, ok := c.users[id]
	return u, ok
}

// Song returns the song with the given id.
func (c *Catalog) Song(id string) (models.Song, bool) {
	s, ok := c.songs[id]
	return s, ok
}

// NextID returns the id the next [Catalog.CreatePlaylist] call will allocate.
func (c *Catalog) NextID() string {
	return strconv.Itoa(c.nextID)
}

// Stats counts the entities in each collection.
type Stats struct {
	Users     int `json:"users"`
	Songs     int `json:"songs"`
	Playlists int `json:"playlists"`
}

func (c *Catalog) Stats() Stats {
	return Stats{Users: len(c.users), Songs: len(c.songs), Playlists: len(c.playlists)}
}

func (c *Catalog) allocateID() (string, error) {
	if c.nextID == math.MaxInt {
		return "", shared.SchemaError("", "playlist ids exhausted at %d", c.nextID)
	}
	id := c.nextID
	c.nextID++
	return strconv.Itoa(id), nil
}

// checkSongs fails on the first song id not in the catalog.
func (c *Catalog) checkSongs(songIDs []string) error {
	for _, id := range songIDs {
		if _, ok := c.songs[id]; !ok {
			return shared.ReferenceError("song %s does not exist", id)
		}
	}
	return nil
}

func (c *Catalog) clone() *Catalog {
	out := New()
	out.nextID = c.nextID
	for id, u := range c.users {
		out.users[id] = u
	}
	for id, s := range c.songs {
		out.songs[id] = s
	}
	for id, p := range c.playlists {
		cp := p.Clone()
		out.playlists[id] = &cp
	}
	return out
}

// appendMissing appends the ids from add that are not yet in dst, first occurrence wins.
func appendMissing(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(add))
	for _, id := range dst {
		seen[id] = struct{}{}
	}
	for _, id := range add {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
