package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, doc string) any {
	t.Helper()
	v, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	return v
}

func requireSchemaError(t *testing.T, err error, path, fragment string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrSchema), "expected schema error, got %v", err)

	var se *shared.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, path, se.Path)
	assert.Contains(t, se.Message, fragment)
}

func TestDecode(t *testing.T) {
	t.Run("keeps numbers as json.Number", func(t *testing.T) {
		v := mustDecode(t, `{"n": 1}`)
		assert.Equal(t, Number, TypeOf(v.(map[string]any)["n"]))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := DecodeBytes([]byte(`{"users": [`))
		requireSchemaError(t, err, "", "malformed JSON")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := Decode(strings.NewReader("  "))
		requireSchemaError(t, err, "", "empty document")
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := DecodeBytes([]byte(`{} {}`))
		requireSchemaError(t, err, "", "after the top-level value")
	})
}

func TestValidateCatalog(t *testing.T) {
	valid := `{
		"users": [{"id": "1", "name": "Albin Jaye", "email": "ignored"}],
		"songs": [{"id": "1", "artist": "Camila Cabello", "title": "Never Be the Same"}],
		"playlists": [{"id": "1", "user_id": "1", "song_ids": ["1"]}]
	}`

	t.Run("accepts a valid document with extra fields", func(t *testing.T) {
		assert.NoError(t, Validate(mustDecode(t, valid), Catalog))
	})

	t.Run("accepts empty collections", func(t *testing.T) {
		assert.NoError(t, Validate(mustDecode(t, `{"users": [], "songs": [], "playlists": []}`), Catalog))
	})

	tc := []struct {
		name     string
		doc      string
		path     string
		fragment string
	}{
		{
			name:     "top level is not an object",
			doc:      `[]`,
			path:     "",
			fragment: "expected object, got array",
		},
		{
			name:     "missing collection",
			doc:      `{"users": [], "songs": []}`,
			path:     "",
			fragment: `missing required field "playlists"`,
		},
		{
			name:     "collection is not an array",
			doc:      `{"users": {}, "songs": [], "playlists": []}`,
			path:     "/users",
			fragment: "expected array, got object",
		},
		{
			name:     "user missing name",
			doc:      `{"users": [{"id": "1"}], "songs": [], "playlists": []}`,
			path:     "/users/0",
			fragment: `missing required field "name"`,
		},
		{
			name:     "numeric song id",
			doc:      `{"users": [], "songs": [{"id": 1, "artist": "a", "title": "t"}], "playlists": []}`,
			path:     "/songs/0/id",
			fragment: "expected string, got number",
		},
		{
			name:     "song_ids item of the wrong type",
			doc:      `{"users": [], "songs": [], "playlists": [{"id": "1", "user_id": "1", "song_ids": ["1", null]}]}`,
			path:     "/playlists/0/song_ids/1",
			fragment: "expected string, got null",
		},
		{
			name:     "song_ids is not an array",
			doc:      `{"users": [], "songs": [], "playlists": [{"id": "1", "user_id": "1", "song_ids": "1"}]}`,
			path:     "/playlists/0/song_ids",
			fragment: "expected array, got string",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mustDecode(t, tt.doc), Catalog)
			requireSchemaError(t, err, tt.path, tt.fragment)
		})
	}

	t.Run("reports required fields before property types", func(t *testing.T) {
		doc := `{"users": [{"id": 5}], "songs": [], "playlists": []}`
		err := Validate(mustDecode(t, doc), Catalog)
		requireSchemaError(t, err, "/users/0", `missing required field "name"`)
	})
}

func TestValidateChanges(t *testing.T) {
	t.Run("ChangeList checks only the outer array", func(t *testing.T) {
		assert.NoError(t, Validate(mustDecode(t, `[{"type": "new_playlist"}, {"playlist_id": "1"}, 3]`), ChangeList))
	})

	t.Run("ChangeList rejects a non-array document", func(t *testing.T) {
		err := Validate(mustDecode(t, `{"type": "new_playlist"}`), ChangeList)
		requireSchemaError(t, err, "", "expected array, got object")
	})

	t.Run("Change requires a type", func(t *testing.T) {
		err := Validate(mustDecode(t, `{"playlist_id": "1"}`), Change)
		requireSchemaError(t, err, "", `missing required field "type"`)
	})

	t.Run("ForChange", func(t *testing.T) {
		for _, ct := range models.ChangeTypes {
			s, ok := ForChange(ct)
			assert.True(t, ok, "expected schema for %s", ct)
			assert.NotNil(t, s)
		}

		_, ok := ForChange("rename_playlist")
		assert.False(t, ok)
	})

	t.Run("add_song_to_playlist", func(t *testing.T) {
		assert.NoError(t, Validate(mustDecode(t, `{"type": "add_song_to_playlist", "playlist_id": "2", "song_ids": ["2"]}`), AddSongToPlaylist))

		err := Validate(mustDecode(t, `{"playlist_id": "2"}`), AddSongToPlaylist)
		requireSchemaError(t, err, "", `missing required field "song_ids"`)
	})

	t.Run("new_playlist", func(t *testing.T) {
		err := Validate(mustDecode(t, `{"user_id": 1, "song_ids": []}`), NewPlaylist)
		requireSchemaError(t, err, "/user_id", "expected string, got number")
	})

	t.Run("remove_playlist", func(t *testing.T) {
		assert.NoError(t, Validate(mustDecode(t, `{"playlist_id": "1"}`), RemovePlaylist))

		err := Validate(mustDecode(t, `{"playlist_id": ["1"]}`), RemovePlaylist)
		requireSchemaError(t, err, "/playlist_id", "expected string, got array")
	})
}

func TestPointerEscaping(t *testing.T) {
	s := &Schema{Type: Object, Properties: map[string]*Schema{"a/b~c": {Type: String}}}
	err := Validate(mustDecode(t, `{"a/b~c": true}`), s)
	requireSchemaError(t, err, "/a~1b~0c", "expected string, got boolean")
}
