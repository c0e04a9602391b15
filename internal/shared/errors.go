package shared

import (
	"errors"
	"fmt"
)

var (
	// Catalog error kinds. Every [Error] unwraps to exactly one of these.
	ErrSchema         = errors.New("schema error")
	ErrReference      = errors.New("reference error")
	ErrEmptyPlaylist  = errors.New("empty playlist")
	ErrNotFound       = errors.New("not found")
	ErrUnknownCommand = errors.New("unknown command")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrRunNotFound = fmt.Errorf("run not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Error is a catalog failure tagged with its kind.
//
// Path locates the offending value inside the input document when known (e.g. "/playlists/0/song_ids/1").
type Error struct {
	Kind    error
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap exposes the kind so callers can match with [errors.Is].
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// SchemaError reports a structural violation at path.
func SchemaError(path, format string, args ...any) *Error {
	return newError(ErrSchema, path, format, args...)
}

// ReferenceError reports an id that names no entity in its collection.
func ReferenceError(format string, args ...any) *Error {
	return newError(ErrReference, "", format, args...)
}

// EmptyPlaylistError reports a playlist that would end up with no songs.
func EmptyPlaylistError(format string, args ...any) *Error {
	return newError(ErrEmptyPlaylist, "", format, args...)
}

// NotFoundError reports an operation on a playlist that does not exist.
func NotFoundError(format string, args ...any) *Error {
	return newError(ErrNotFound, "", format, args...)
}

// UnknownCommandError reports a change command with an unrecognized type.
func UnknownCommandError(format string, args ...any) *Error {
	return newError(ErrUnknownCommand, "", format, args...)
}
