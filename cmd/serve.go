package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the run history API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.WithLogger(r.logger, "component", "server")
	srv := server.NewServer(repositories.NewRunRepository(db), repositories.NewSnapshotRepository(db), logger)
	srv.Use(server.RequestLogger(logger))

	return srv.ListenAndServe(ctx, cfg.Addr())
}
