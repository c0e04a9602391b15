// Package ui implements terminal output for the mixtape CLI.
//
// [Palette] holds the lipgloss styles used for CLI summaries and errors.
//
// [Browser] is a bubbletea model with three views:
//  1. [ApplyView] : progress while a change batch is applied
//  2. [PlaylistListView] : playlists in the catalog with their owners
//  3. [SongListView] : the songs of one playlist in order
//
// Progress updates flow through a channel from the change processor, so the view never blocks the batch.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help from charmbracelet/bubbles/help.
package ui
