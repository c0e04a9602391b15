package tasks

import (
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
)

// ProgressUpdate represents a progress event while a change batch is applied.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // 1-based index of the change within the batch
	Total   int    // Number of changes in the batch
	Message string // Human-readable message for display
	Data    any    // The typed change, or the error for [Failed]
}

// Operation phase enumeration
type Phase int

const (
	AddSongs Phase = iota
	CreatePlaylist
	RemovePlaylist
	Failed
	Completed
)

func (p Phase) String() string {
	switch p {
	case AddSongs:
		return "add_songs"
	case CreatePlaylist:
		return "create_playlist"
	case RemovePlaylist:
		return "remove_playlist"
	case Failed:
		return "failed"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

func addSongsUpdate(step, total int, ch models.AddSongsChange) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] added %d song(s) to playlist %s", step, total, len(ch.SongIDs), ch.PlaylistID),
		Data:    ch,
	}
}

func createPlaylistUpdate(step, total int, id string, ch models.NewPlaylistChange) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] created playlist %s for user %s", step, total, id, ch.UserID),
		Data:    ch,
	}
}

func removePlaylistUpdate(step, total int, ch models.RemovePlaylistChange) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemovePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] removed playlist %s", step, total, ch.PlaylistID),
		Data:    ch,
	}
}

func failedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %v", step, total, err),
		Data:    err,
	}
}

func completedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Completed,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("✓ applied %d change(s)", total),
	}
}
