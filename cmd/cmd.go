// submodule cmd contains command definitions
package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// action wraps a command action so the config file and log level are applied first.
func (r *Runner) action(fn cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.configure(cmd); err != nil {
			return err
		}
		return fn(ctx, cmd)
	}
}

// rootFlags are persistent, so every subcommand accepts them too.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log every applied change",
		},
	}
}

func batchArguments() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{Name: "input"},
		&cli.StringArg{Name: "changes"},
		&cli.StringArg{Name: "output"},
	}
}

// applyCommand loads a catalog, applies a change list and writes the snapshot
func applyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a change list and write the resulting snapshot",
		ArgsUsage: "<input> <changes> <output>",
		Arguments: batchArguments(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, md or txt (defaults to output.format)",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Record the run and its snapshot in the database",
			},
		},
		Action: r.action(r.Apply),
	}
}

// validateCommand checks documents without writing anything
func validateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check an input document and, optionally, a change list against it",
		ArgsUsage: "<input> [changes]",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "input"},
			&cli.StringArg{Name: "changes"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.action(r.Validate),
	}
}

// runsCommand manages stored run history
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect runs saved with apply --save",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.action(r.RunsList),
			},
			{
				Name:      "show",
				Usage:     "Show one run and its snapshot counts",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.action(r.RunsShow),
			},
			{
				Name:      "export",
				Usage:     "Write the snapshot saved with a run",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when empty)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, md or txt (defaults to output.format)",
					},
				},
				Action: r.action(r.RunsExport),
			},
			{
				Name:      "delete",
				Usage:     "Delete a run and its snapshot",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.action(r.RunsDelete),
			},
		},
	}
}

// browseCommand returns the interactive catalog browser command.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"ui"},
		Usage:     "Browse a catalog interactively, optionally after applying a change list",
		ArgsUsage: "<input> [changes]",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "input"},
			&cli.StringArg{Name: "changes"},
		},
		Action: r.action(r.Browse),
	}
}

// serveCommand starts the read-only run history API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve saved runs over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (defaults to server.port)",
			},
		},
		Action: r.action(r.Serve),
	}
}

// setupCommand writes a config file and migrates the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing and run database migrations",
		Action: r.Setup,
	}
}
