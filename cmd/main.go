package main

import (
	"context"
	"os"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("failed to process: %v", err)
	}
}

// newApp builds the root command. Given three positional arguments and no subcommand it loads, applies and writes
// the JSON snapshot.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mixtape",
		Usage:     "Apply change lists to a playlist catalog",
		UsageText: "mixtape <input> <changes> <output>\nmixtape [command] [options]",
		Version:   "0.1.0",
		Flags:     rootFlags(),
		Arguments: batchArguments(),
		Action:    r.action(r.Process),
		Commands:  r.register(),
	}
}
