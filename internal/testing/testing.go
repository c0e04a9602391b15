// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// SampleInput is the bulk-load document used across package tests.
const SampleInput = `{
  "users": [
    {"id": "1", "name": "Albin Jaye"}
  ],
  "playlists": [
    {"id": "1", "user_id": "1", "song_ids": ["1", "2"]},
    {"id": "2", "user_id": "1", "song_ids": ["1"]}
  ],
  "songs": [
    {"id": "1", "artist": "Camila Cabello", "title": "Never Be the Same"},
    {"id": "2", "artist": "Zedd", "title": "The Middle"}
  ]
}`

// SampleChanges adds a song to playlist 2, creates playlist 3 and removes playlist 1.
const SampleChanges = `[
  {"type": "add_song_to_playlist", "playlist_id": "2", "song_ids": ["2"]},
  {"type": "new_playlist", "user_id": "1", "song_ids": ["1", "2"]},
  {"type": "remove_playlist", "playlist_id": "1"}
]`

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FReader always returns an error on Read
type FReader struct{}

func (f *FReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FReader) Close() error {
	return nil
}

// WriteTempFile writes content to name inside a fresh temp dir and returns the path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
