package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when it is missing, then migrates the database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if err := r.configure(cmd); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Infof("setup complete for database: %v (schema version %d)", r.config.Database.Path, version)
	return nil
}
