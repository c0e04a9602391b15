package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/schema"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive catalog browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if input == "" {
		return fmt.Errorf("%w: input path", shared.ErrMissingArgument)
	}

	b, err := r.loadBatch(input)
	if err != nil {
		return err
	}

	var changes []any
	if path := cmd.StringArg("changes"); path != "" {
		if changes, err = readChanges(path); err != nil {
			return err
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mixtape-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	p := tea.NewProgram(ui.NewBrowser(b.catalog, changes), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// readChanges decodes a change list and checks that it is an array. Entries are checked as they are applied.
func readChanges(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}

	v, err := schema.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(v, schema.ChangeList); err != nil {
		return nil, err
	}
	return v.([]any), nil
}
