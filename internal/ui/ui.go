package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/catalog"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ApplyView ViewState = iota
	PlaylistListView
	SongListView
)

// Browser is the bubbletea model behind `mixtape browse`.
type Browser struct {
	view         ViewState
	catalog      *catalog.Catalog
	changes      []any
	snapshot     models.Snapshot
	width        int
	height       int
	playlistList list.Model
	songList     list.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan applyComplete
	progress     tasks.ProgressUpdate
	result       *tasks.ApplyResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewBrowser creates a browser over cat. When changes is non-empty they are applied first and their progress is shown.
func NewBrowser(cat *catalog.Catalog, changes []any) *Browser {
	b := &Browser{
		view:         PlaylistListView,
		catalog:      cat,
		changes:      changes,
		playlistList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		songList:     list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	if len(changes) > 0 {
		b.view = ApplyView
	} else {
		b.loadPlaylists()
	}
	return b
}

// Init starts applying changes, if any.
func (b *Browser) Init() tea.Cmd {
	if b.view != ApplyView {
		return nil
	}
	return b.startApply()
}

// Update handles incoming messages and updates the model state.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.playlistList.SetSize(b.listSize())
		b.songList.SetSize(b.listSize())
		return b, nil

	case tea.KeyMsg:
		switch b.view {
		case ApplyView:
			if key.Matches(msg, b.keys.quit) {
				return b, tea.Quit
			}
			return b, nil
		case PlaylistListView:
			return b.handlePlaylistListKeys(msg)
		case SongListView:
			return b.handleSongListKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			b.progress = msg.data.(tasks.ProgressUpdate)
			return b, b.waitForProgress()
		case MsgApplyComplete:
			done := msg.data.(applyComplete)
			b.result = done.result
			b.err = done.err
			b.progressChan = nil
			b.loadPlaylists()
			b.view = PlaylistListView
			return b, nil
		}
	}

	return b.updateLists(msg)
}

// View renders the UI based on the current view state.
func (b *Browser) View() string {
	switch b.view {
	case ApplyView:
		return b.renderApply()
	case PlaylistListView:
		return b.renderPlaylistList()
	case SongListView:
		return b.renderSongList()
	default:
		return ""
	}
}

func (b *Browser) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.enter):
		if selected, ok := b.playlistList.SelectedItem().(playlistItem); ok {
			b.openPlaylist(selected)
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.playlistList, cmd = b.playlistList.Update(msg)
	return b, cmd
}

func (b *Browser) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.back):
		b.view = PlaylistListView
		return b, nil
	}

	var cmd tea.Cmd
	b.songList, cmd = b.songList.Update(msg)
	return b, cmd
}

func (b *Browser) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch b.view {
	case PlaylistListView:
		b.playlistList, cmd = b.playlistList.Update(msg)
	case SongListView:
		b.songList, cmd = b.songList.Update(msg)
	}
	return b, cmd
}

func (b *Browser) loadPlaylists() {
	b.snapshot = b.catalog.Snapshot()
	b.playlistList = list.New(playlistItems(b.snapshot), list.NewDefaultDelegate(), 0, 0)
	b.playlistList.Title = fmt.Sprintf("Playlists (%d)", len(b.snapshot.Playlists))
	b.playlistList.SetSize(b.listSize())
}

func (b *Browser) openPlaylist(item playlistItem) {
	b.songList = list.New(songItems(b.snapshot, item.playlist), list.NewDefaultDelegate(), 0, 0)
	b.songList.Title = fmt.Sprintf("Playlist %s • %s", item.playlist.ID, item.owner)
	b.songList.SetSize(b.listSize())
	b.view = SongListView
}

func (b *Browser) listSize() (int, int) {
	return max(b.width-4, 0), max(b.height-8, 0)
}

// startApply runs the change batch in the background. The processor never blocks on a full channel, so the buffer
// holds one update per change plus the final one.
func (b *Browser) startApply() tea.Cmd {
	b.progressChan = make(chan tasks.ProgressUpdate, len(b.changes)+1)
	b.doneChan = make(chan applyComplete, 1)

	progress, done := b.progressChan, b.doneChan
	processor := tasks.NewProcessor(b.catalog)
	changes := b.changes

	go func() {
		result, err := processor.Apply(changes, progress)
		close(progress)
		done <- applyComplete{result, err}
	}()

	return b.waitForProgress()
}

func (b *Browser) waitForProgress() tea.Cmd {
	progress, done := b.progressChan, b.doneChan
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		result := <-done
		return applyCompleteMsg(result.result, result.err)
	}
}

func (b *Browser) renderApply() string {
	title := styles.Title("Applying changes")
	phase := "Starting..."
	if b.progress.Total > 0 {
		phase = fmt.Sprintf("%s (%d/%d)", b.progress.Phase, b.progress.Step, b.progress.Total)
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, b.progress.Message)
}

func (b *Browser) renderStatus() string {
	switch {
	case b.err != nil:
		applied := 0
		if b.result != nil {
			applied = b.result.Applied
		}
		return styles.Err(fmt.Sprintf("✗ stopped after %d change(s): %v", applied, b.err))
	case b.result != nil:
		return styles.OK(fmt.Sprintf("✓ applied %d change(s)", b.result.Applied))
	default:
		return ""
	}
}

func (b *Browser) renderPlaylistList() string {
	helpView := b.help.ShortHelpView([]key.Binding{b.keys.enter, b.keys.quit})
	if status := b.renderStatus(); status != "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s", status, b.playlistList.View(), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", b.playlistList.View(), helpView)
}

func (b *Browser) renderSongList() string {
	helpView := b.help.ShortHelpView([]key.Binding{b.keys.back, b.keys.quit})
	return fmt.Sprintf("%s\n\n%s", b.songList.View(), helpView)
}
