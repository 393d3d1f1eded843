// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mangactl is the operator CLI for MangaShelf: schema migrations,
// reference data seeding and notification replays.
//
// It reads the same environment as the API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/platform/config"
	"github.com/taibuivan/mangashelf/internal/platform/logger"
	pgstore "github.com/taibuivan/mangashelf/internal/platform/postgres"
)

const cliName = "mangactl"

// cli holds what every subcommand shares once the root pre-run has loaded it.
type cli struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{}
	if err := app.rootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (app *cli) rootCommand() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:          cliName,
		Short:        "Operate the MangaShelf database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.log, app.closeLog = logger.New(logger.Options{App: cliName, Debug: debug || cfg.Debug})
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app.closeLog != nil {
				return app.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(app.migrateCommand(), app.seedCommand(), app.fanoutCommand())
	return root
}

// connect opens the Postgres pool for commands that talk to the database
// directly.
func (app *cli) connect(ctx context.Context) (*pgxpool.Pool, error) {
	return pgstore.NewPool(ctx, app.cfg.DatabaseURL, app.log, pgstore.PoolOptions{MaxConns: 4, MinConns: 1})
}
