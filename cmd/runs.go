package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// RunsList prints saved runs, newest first.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(map[string]any{
		"latest": true,
		"limit":  int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]any, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, run.Summary())
		}
		return r.writeJSON(summaries, true)
	}

	if len(runs) == 0 {
		r.writePlain("%s\n", r.styles.Warn("No saved runs. Use `mixtape apply --save` to record one."))
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Runs (%d)", len(runs)))
	for _, run := range runs {
		r.writePlain("#%-4d %s  %s  applied=%d  %s\n",
			run.Sequence(),
			run.ID(),
			run.CreatedAt().Local().Format("2006-01-02 15:04:05"),
			run.Applied(),
			run.InputPath(),
		)
	}

	return nil
}

// RunsShow prints one run and the size of its snapshot.
func (r *Runner) RunsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := runID(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := repositories.NewRunRepository(db).Get(id)
	if err != nil {
		return err
	}

	snap, err := repositories.NewSnapshotRepository(db).Load(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"run": run.Summary(),
			"stats": map[string]int{
				"users":     len(snap.Users),
				"songs":     len(snap.Songs),
				"playlists": len(snap.Playlists),
			},
		}, true)
	}

	r.writePlainHeader(fmt.Sprintf("Run #%d", run.Sequence()))
	r.writePlain("ID:       %s\n", run.ID())
	r.writePlain("Input:    %s\n", run.InputPath())
	r.writePlain("Changes:  %s\n", run.ChangesPath())
	r.writePlain("Applied:  %d\n", run.Applied())
	r.writePlain("Created:  %s\n", run.CreatedAt().Local().Format("2006-01-02 15:04:05"))
	r.writePlainln("Users: %d, Songs: %d, Playlists: %d", len(snap.Users), len(snap.Songs), len(snap.Playlists))

	return nil
}

// RunsExport writes a saved snapshot to --output or stdout.
func (r *Runner) RunsExport(ctx context.Context, cmd *cli.Command) error {
	id, err := runID(cmd)
	if err != nil {
		return err
	}

	format, err := r.outputFormat(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := repositories.NewSnapshotRepository(db).Load(id)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return formatter.Write(r.output, snap, format, r.config.Output.Indent)
	}

	if err := formatter.WriteFile(output, snap, format, r.config.Output.Indent); err != nil {
		return err
	}
	r.logger.Info("snapshot exported", "run", id, "path", output, "format", format)
	return nil
}

// RunsDelete removes a run and its snapshot.
func (r *Runner) RunsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := runID(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewRunRepository(db).Delete(id); err != nil {
		return err
	}

	r.writePlain("%s\n", r.styles.OK("✓ deleted run "+id))
	return nil
}

func runID(cmd *cli.Command) (string, error) {
	id := cmd.StringArg("id")
	if id == "" {
		return "", fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}
	return id, nil
}
