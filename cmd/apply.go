package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/desertthunder/mixtape/internal/catalog"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// batch is a catalog after a change list has been applied to it.
type batch struct {
	catalog *catalog.Catalog
	result  *tasks.ApplyResult
}

// Process loads input, applies changes and writes the JSON snapshot to output.
// Nothing is written when any step fails.
func (r *Runner) Process(ctx context.Context, cmd *cli.Command) error {
	input, changes, output, err := batchPaths(cmd)
	if err != nil {
		return err
	}

	b, err := r.runBatch(input, changes)
	if err != nil {
		return err
	}

	if err := formatter.WriteFile(output, b.catalog.Snapshot(), "json", r.config.Output.Indent); err != nil {
		return err
	}

	r.logger.Info("snapshot written", "path", output, "applied", b.result.Applied)
	return nil
}

// Apply is [Runner.Process] with a selectable output format and optional run history.
func (r *Runner) Apply(ctx context.Context, cmd *cli.Command) error {
	input, changes, output, err := batchPaths(cmd)
	if err != nil {
		return err
	}

	format, err := r.outputFormat(cmd)
	if err != nil {
		return err
	}

	b, err := r.runBatch(input, changes)
	if err != nil {
		return err
	}

	snap := b.catalog.Snapshot()
	if err := formatter.WriteFile(output, snap, format, r.config.Output.Indent); err != nil {
		return err
	}

	r.writePlain("%s\n", r.styles.OK(fmt.Sprintf("✓ applied %d change(s)", b.result.Applied)))
	if len(b.result.Created) > 0 {
		r.writePlain("Created playlists: %s\n", strings.Join(b.result.Created, ", "))
	}
	r.writePlain("Snapshot written to %s (%s)\n", output, format)

	if !cmd.Bool("save") {
		return nil
	}

	run, err := r.saveRun(input, changes, b.result.Applied, snap)
	if err != nil {
		return err
	}
	r.writePlain("Saved run #%d (%s)\n", run.Sequence(), run.ID())

	return nil
}

// Validate is a dry run: it loads the input, applies the optional change list in memory and reports the outcome.
func (r *Runner) Validate(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if input == "" {
		return fmt.Errorf("%w: input path", shared.ErrMissingArgument)
	}

	var b *batch
	var err error
	if changes := cmd.StringArg("changes"); changes != "" {
		b, err = r.runBatch(input, changes)
	} else {
		b, err = r.loadBatch(input)
	}
	if err != nil {
		return err
	}

	stats := b.catalog.Stats()
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"stats":   stats,
			"applied": b.result.Applied,
			"created": b.result.Created,
			"next_id": b.catalog.NextID(),
		}, true)
	}

	r.writePlain("%s\n", r.styles.OK("✓ valid"))
	r.writePlain("Users: %d, Songs: %d, Playlists: %d\n", stats.Users, stats.Songs, stats.Playlists)
	if b.result.Total > 0 {
		r.writePlain("Changes applied: %d/%d\n", b.result.Applied, b.result.Total)
	}
	if len(b.result.Created) > 0 {
		r.writePlain("Created playlists: %s\n", strings.Join(b.result.Created, ", "))
	}
	r.writePlain("Next playlist id: %s\n", b.catalog.NextID())

	return nil
}

func (r *Runner) loadBatch(inputPath string) (*batch, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	cat, err := catalog.Open(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}

	stats := cat.Stats()
	r.logger.Debug("catalog loaded", "users", stats.Users, "songs", stats.Songs, "playlists", stats.Playlists)
	return &batch{catalog: cat, result: &tasks.ApplyResult{}}, nil
}

// runBatch loads the catalog and applies the change list, logging progress at debug level.
func (r *Runner) runBatch(inputPath, changesPath string) (*batch, error) {
	b, err := r.loadBatch(inputPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(changesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open changes: %w", err)
	}
	defer f.Close()

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	result, err := tasks.NewProcessor(b.catalog).ApplyReader(f, progress)
	close(progress)
	<-done

	b.result = result
	if err != nil {
		return b, fmt.Errorf("failed to apply %s after %d change(s): %w", changesPath, result.Applied, err)
	}

	return b, nil
}

func (r *Runner) saveRun(inputPath, changesPath string, applied int, snap models.Snapshot) (*models.Run, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	runs := repositories.NewRunRepository(db)
	run := models.NewRun(0, inputPath, changesPath, applied)
	if err := runs.Create(run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	if err := repositories.NewSnapshotRepository(db).Save(run.ID(), snap); err != nil {
		if delErr := runs.Delete(run.ID()); delErr != nil {
			r.logger.Warn("failed to remove incomplete run", "id", run.ID(), "error", delErr)
		}
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Debug("run saved", "id", run.ID(), "sequence", run.Sequence())
	return run, nil
}

// outputFormat returns --format, falling back to the configured default.
func (r *Runner) outputFormat(cmd *cli.Command) (string, error) {
	format := cmd.String("format")
	if format == "" {
		format = r.config.Output.Format
	}
	if !slices.Contains(shared.OutputFormats, format) {
		return "", fmt.Errorf("%w: format %q is not one of %v", shared.ErrInvalidFlag, format, shared.OutputFormats)
	}
	return format, nil
}

func batchPaths(cmd *cli.Command) (input, changes, output string, err error) {
	input, changes, output = cmd.StringArg("input"), cmd.StringArg("changes"), cmd.StringArg("output")
	if input == "" || changes == "" || output == "" {
		return "", "", "", fmt.Errorf("%w: usage: mixtape <input> <changes> <output>", shared.ErrMissingArgument)
	}
	if cmd.Args().Len() > 0 {
		return "", "", "", fmt.Errorf("%w: unexpected %v", shared.ErrInvalidArgument, cmd.Args().Slice())
	}
	return input, changes, output, nil
}
