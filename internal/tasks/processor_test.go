package tasks

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/catalog"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/schema"
	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a [Mutator] that logs calls and fails when told to.
type recorder struct {
	calls  []string
	failOn string
	nextID int
}

func (r *recorder) call(name string) error {
	r.calls = append(r.calls, name)
	if name == r.failOn {
		return shared.NotFoundError("forced failure in %s", name)
	}
	return nil
}

func (r *recorder) AddSongsToPlaylist(playlistID string, songIDs []string) error {
	return r.call("add:" + playlistID)
}

func (r *recorder) CreatePlaylist(userID string, songIDs []string) (string, error) {
	if err := r.call("new:" + userID); err != nil {
		return "", err
	}
	r.nextID++
	return strings.Repeat("x", r.nextID), nil
}

func (r *recorder) RemovePlaylist(playlistID string) error {
	return r.call("remove:" + playlistID)
}

func decodeChanges(t *testing.T, doc string) []any {
	t.Helper()
	v, err := schema.DecodeBytes([]byte(doc))
	require.NoError(t, err)
	return v.([]any)
}

func openSample(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(strings.NewReader(tu.SampleInput))
	require.NoError(t, err)
	return c
}

func TestProcessorEndToEnd(t *testing.T) {
	c := openSample(t)
	p := NewProcessor(c)

	result, err := p.ApplyReader(strings.NewReader(tu.SampleChanges), nil)
	require.NoError(t, err)
	assert.Equal(t, &ApplyResult{Total: 3, Applied: 3, Created: []string{"3"}}, result)

	assert.Equal(t, []models.Playlist{
		{ID: "2", UserID: "1", SongIDs: []string{"1", "2"}},
		{ID: "3", UserID: "1", SongIDs: []string{"1", "2"}},
	}, c.Snapshot().Playlists)
}

func TestProcessorApply(t *testing.T) {
	t.Run("dispatches in order", func(t *testing.T) {
		rec := &recorder{}
		result, err := NewProcessor(rec).Apply(decodeChanges(t, tu.SampleChanges), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"add:2", "new:1", "remove:1"}, rec.calls)
		assert.Equal(t, 3, result.Applied)
	})

	t.Run("empty batch", func(t *testing.T) {
		result, err := NewProcessor(&recorder{}).Apply(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &ApplyResult{}, result)
	})

	t.Run("stops at the first failure without rollback", func(t *testing.T) {
		c := openSample(t)
		changes := decodeChanges(t, `[
			{"type": "add_song_to_playlist", "playlist_id": "2", "song_ids": ["2"]},
			{"type": "remove_playlist", "playlist_id": "99"},
			{"type": "remove_playlist", "playlist_id": "1"}
		]`)

		result, err := NewProcessor(c).Apply(changes, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Contains(t, err.Error(), "change 1 (remove_playlist)")
		assert.Equal(t, 1, result.Applied)

		p, _ := c.Playlist("2")
		assert.Equal(t, []string{"1", "2"}, p.SongIDs, "first change stays applied")
		_, ok := c.Playlist("1")
		assert.True(t, ok, "changes after the failure are not applied")
	})

	t.Run("unknown type halts the batch", func(t *testing.T) {
		rec := &recorder{}
		changes := decodeChanges(t, `[
			{"type": "remove_playlist", "playlist_id": "1"},
			{"type": "rename_playlist", "playlist_id": "2", "name": "x"},
			{"type": "remove_playlist", "playlist_id": "2"}
		]`)

		result, err := NewProcessor(rec).Apply(changes, nil)
		assert.True(t, errors.Is(err, shared.ErrUnknownCommand))
		assert.Equal(t, []string{"remove:1"}, rec.calls)
		assert.Equal(t, 1, result.Applied)
	})

	t.Run("schema failure points into the batch", func(t *testing.T) {
		rec := &recorder{}
		changes := decodeChanges(t, `[
			{"type": "new_playlist", "user_id": "1", "song_ids": ["1"]},
			{"type": "new_playlist", "user_id": "1", "song_ids": [1]}
		]`)

		_, err := NewProcessor(rec).Apply(changes, nil)
		require.True(t, errors.Is(err, shared.ErrSchema))

		var se *shared.Error
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "/1/song_ids/0", se.Path)
		assert.Equal(t, []string{"new:1"}, rec.calls)
	})

	t.Run("entry without a type", func(t *testing.T) {
		_, err := NewProcessor(&recorder{}).Apply(decodeChanges(t, `[{"playlist_id": "1"}]`), nil)
		assert.True(t, errors.Is(err, shared.ErrSchema))
	})

	t.Run("non-string type is an unknown command", func(t *testing.T) {
		rec := &recorder{}
		changes := decodeChanges(t, `[
			{"type": "remove_playlist", "playlist_id": "1"},
			{"type": 5, "playlist_id": "2"}
		]`)

		result, err := NewProcessor(rec).Apply(changes, nil)
		assert.True(t, errors.Is(err, shared.ErrUnknownCommand))
		assert.Contains(t, err.Error(), "change type 5")
		assert.Equal(t, 1, result.Applied)
	})

	t.Run("entry that is not an object", func(t *testing.T) {
		_, err := NewProcessor(&recorder{}).Apply(decodeChanges(t, `["remove_playlist"]`), nil)
		assert.True(t, errors.Is(err, shared.ErrSchema))
	})

	t.Run("mutator error keeps its kind", func(t *testing.T) {
		rec := &recorder{failOn: "new:1"}
		result, err := NewProcessor(rec).Apply(decodeChanges(t, tu.SampleChanges), nil)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, 1, result.Applied)
		assert.Empty(t, result.Created)
	})

	t.Run("generated ids follow processing order", func(t *testing.T) {
		c := openSample(t)
		changes := decodeChanges(t, `[
			{"type": "new_playlist", "user_id": "1", "song_ids": ["2"]},
			{"type": "remove_playlist", "playlist_id": "3"},
			{"type": "new_playlist", "user_id": "1", "song_ids": ["1"]}
		]`)

		result, err := NewProcessor(c).Apply(changes, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "4"}, result.Created)
	})
}

func TestApplyReader(t *testing.T) {
	t.Run("rejects a non-array document", func(t *testing.T) {
		result, err := NewProcessor(&recorder{}).ApplyReader(strings.NewReader(`{"type": "new_playlist"}`), nil)
		assert.True(t, errors.Is(err, shared.ErrSchema))
		assert.Equal(t, 0, result.Applied)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := NewProcessor(&recorder{}).ApplyReader(strings.NewReader(`[{"type": `), nil)
		assert.True(t, errors.Is(err, shared.ErrSchema))
	})
}

func TestProgress(t *testing.T) {
	t.Run("reports each change then completion", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		_, err := NewProcessor(openSample(t)).Apply(decodeChanges(t, tu.SampleChanges), progress)
		require.NoError(t, err)
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
			assert.Equal(t, 3, update.Total)
		}
		assert.Equal(t, []Phase{AddSongs, CreatePlaylist, RemovePlaylist, Completed}, phases)
	})

	t.Run("reports the failure", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		_, err := NewProcessor(&recorder{failOn: "add:2"}).Apply(decodeChanges(t, tu.SampleChanges), progress)
		require.Error(t, err)
		close(progress)

		update := <-progress
		assert.Equal(t, Failed, update.Phase)
		assert.Equal(t, 1, update.Step)
		assert.Equal(t, err, update.Data)
	})

	t.Run("full channel never blocks", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		result, err := NewProcessor(openSample(t)).Apply(decodeChanges(t, tu.SampleChanges), progress)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Applied)
	})

	t.Run("phase names", func(t *testing.T) {
		assert.Equal(t, "create_playlist", CreatePlaylist.String())
		assert.Equal(t, "", Phase(99).String())
	})
}
