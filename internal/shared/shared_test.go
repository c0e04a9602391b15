package shared

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestErrors(t *testing.T) {
	tc := []struct {
		name string
		err  *Error
		kind error
		want string
	}{
		{
			name: "schema error with path",
			err:  SchemaError("/users/0/id", "expected string, got number"),
			kind: ErrSchema,
			want: "schema error: /users/0/id: expected string, got number",
		},
		{
			name: "reference error",
			err:  ReferenceError("song %s does not exist", "9"),
			kind: ErrReference,
			want: "reference error: song 9 does not exist",
		},
		{
			name: "empty playlist",
			err:  EmptyPlaylistError("playlist %s has no songs", "1"),
			kind: ErrEmptyPlaylist,
			want: "empty playlist: playlist 1 has no songs",
		},
		{
			name: "not found",
			err:  NotFoundError("playlist %s does not exist", "7"),
			kind: ErrNotFound,
			want: "not found: playlist 7 does not exist",
		},
		{
			name: "unknown command",
			err:  UnknownCommandError("change type %q", "rename"),
			kind: ErrUnknownCommand,
			want: `unknown command: change type "rename"`,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			wrapped := fmt.Errorf("change 2: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("expected wrapped error to match kind %v", tt.kind)
			}
			var e *Error
			if !errors.As(wrapped, &e) || e.Kind != tt.kind {
				t.Errorf("expected wrapped error to carry kind %v", tt.kind)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "key=value") {
			t.Errorf("unexpected log output %q", buf.String())
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		ll, err := ParseLogLevel("DEBUG")
		if err != nil || ll != log.DebugLevel {
			t.Errorf("expected debug level, got %v (%v)", ll, err)
		}

		ll, err = ParseLogLevel("")
		if err != nil || ll != log.InfoLevel {
			t.Errorf("expected info level for empty name, got %v (%v)", ll, err)
		}

		if _, err := ParseLogLevel("chatty"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if !IsUUID(a) {
		t.Errorf("expected %q to parse as a uuid", a)
	}
	if IsUUID("3") {
		t.Error("expected a playlist id not to parse as a uuid")
	}
}
