// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/platform/migration"
)

func (app *cli) migrateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withRunner(func(runner *migration.Runner) error {
				return runner.Down(steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	command.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withRunner(func(runner *migration.Runner) error {
					return runner.Up()
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withRunner(func(runner *migration.Runner) error {
					version, dirty, err := runner.Version()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return err
				})
			},
		},
	)
	return command
}

func (app *cli) withRunner(fn func(runner *migration.Runner) error) error {
	runner, err := migration.Open(app.cfg.DatabaseURL, app.cfg.MigrationPath, app.log)
	if err != nil {
		return err
	}
	defer runner.Close()
	return fn(runner)
}
