// package tasks implements the change processor that applies change batches to a catalog.
package tasks

import (
	"fmt"
	"io"

	"github.com/desertthunder/mixtape/internal/catalog"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/schema"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Mutator is the part of [catalog.Catalog] the processor drives.
type Mutator interface {
	AddSongsToPlaylist(playlistID string, songIDs []string) error
	CreatePlaylist(userID string, songIDs []string) (string, error)
	RemovePlaylist(playlistID string) error
}

var _ Mutator = (*catalog.Catalog)(nil)

// ApplyResult summarizes a (possibly interrupted) batch.
type ApplyResult struct {
	Total   int      // Changes in the batch
	Applied int      // Changes that took effect, a prefix of the batch
	Created []string // Ids generated by new_playlist, in order
}

// Processor applies change commands to a [Mutator]. It keeps no state between batches.
type Processor struct {
	target Mutator
}

// NewProcessor creates a Processor bound to target.
func NewProcessor(target Mutator) *Processor {
	return &Processor{target: target}
}

// sendProgress sends a progress update through the channel without blocking.
func (p *Processor) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ApplyReader decodes a change list from r and applies it with [Processor.Apply].
//
// Only the outer shape (a JSON array) is checked up front; entries are checked as they are reached.
func (p *Processor) ApplyReader(r io.Reader, progress chan<- ProgressUpdate) (*ApplyResult, error) {
	v, err := schema.Decode(r)
	if err != nil {
		return &ApplyResult{}, err
	}
	if err := schema.Validate(v, schema.ChangeList); err != nil {
		return &ApplyResult{}, err
	}
	return p.Apply(v.([]any), progress)
}

// Apply runs changes in order and stops at the first failure.
//
// The returned result is never nil; on failure it reports how many changes took effect before the failing one.
// Errors name the change index and type and wrap a [shared.Error] so the kind survives [errors.Is].
func (p *Processor) Apply(changes []any, progress chan<- ProgressUpdate) (*ApplyResult, error) {
	result := &ApplyResult{Total: len(changes)}
	total := len(changes)

	for i, raw := range changes {
		step := i + 1

		change, err := ParseChange(raw)
		if err != nil {
			err = fmt.Errorf("change %d: %w", i, prefixPath(err, i))
			p.sendProgress(progress, failedUpdate(step, total, err))
			return result, err
		}

		update, err := p.dispatch(step, total, change, result)
		if err != nil {
			err = fmt.Errorf("change %d (%s): %w", i, change.Type(), err)
			p.sendProgress(progress, failedUpdate(step, total, err))
			return result, err
		}

		result.Applied++
		p.sendProgress(progress, update)
	}

	p.sendProgress(progress, completedUpdate(total))
	return result, nil
}

func (p *Processor) dispatch(step, total int, change models.Change, result *ApplyResult) (ProgressUpdate, error) {
	switch ch := change.(type) {
	case models.AddSongsChange:
		if err := p.target.AddSongsToPlaylist(ch.PlaylistID, ch.SongIDs); err != nil {
			return ProgressUpdate{}, err
		}
		return addSongsUpdate(step, total, ch), nil

	case models.NewPlaylistChange:
		id, err := p.target.CreatePlaylist(ch.UserID, ch.SongIDs)
		if err != nil {
			return ProgressUpdate{}, err
		}
		result.Created = append(result.Created, id)
		return createPlaylistUpdate(step, total, id, ch), nil

	case models.RemovePlaylistChange:
		if err := p.target.RemovePlaylist(ch.PlaylistID); err != nil {
			return ProgressUpdate{}, err
		}
		return removePlaylistUpdate(step, total, ch), nil

	default:
		return ProgressUpdate{}, shared.UnknownCommandError("change type %q", change.Type())
	}
}

// ParseChange checks one decoded change entry and converts it into its typed command.
func ParseChange(raw any) (models.Change, error) {
	if obj, ok := raw.(map[string]any); ok {
		if kind, present := obj["type"]; present {
			if _, isString := kind.(string); !isString {
				return nil, shared.UnknownCommandError("change type %v is not one of %v", kind, models.ChangeTypes)
			}
		}
	}
	if err := schema.Validate(raw, schema.Change); err != nil {
		return nil, err
	}

	obj := raw.(map[string]any)
	kind := models.ChangeType(obj["type"].(string))

	s, ok := schema.ForChange(kind)
	if !ok {
		return nil, shared.UnknownCommandError("change type %q is not one of %v", kind, models.ChangeTypes)
	}
	if err := schema.Validate(raw, s); err != nil {
		return nil, err
	}

	switch kind {
	case models.ChangeAddSongToPlaylist:
		return models.AddSongsChange{
			PlaylistID: obj["playlist_id"].(string),
			SongIDs:    catalog.StringsOf(obj["song_ids"]),
		}, nil
	case models.ChangeNewPlaylist:
		return models.NewPlaylistChange{
			UserID:  obj["user_id"].(string),
			SongIDs: catalog.StringsOf(obj["song_ids"]),
		}, nil
	default:
		return models.RemovePlaylistChange{
			PlaylistID: obj["playlist_id"].(string),
		}, nil
	}
}

// prefixPath rebases a schema error path onto the change's position in the batch.
func prefixPath(err error, index int) error {
	se, ok := err.(*shared.Error)
	if !ok || se.Kind != shared.ErrSchema {
		return err
	}
	return &shared.Error{Kind: se.Kind, Path: fmt.Sprintf("/%d%s", index, se.Path), Message: se.Message}
}
