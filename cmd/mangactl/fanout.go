// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/library/mangalist"
	"github.com/taibuivan/mangashelf/internal/library/notification"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/storage"
)

func (app *cli) fanoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fanout <chapter-id>",
		Short: "Retry the subscriber notification of an existing chapter",
		Long:  "Fanout retries the new-chapter notification for one chapter after a failed run. Only users who had the manga on their list when the chapter was created are notified, and users who already have the notification are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			media := storage.NewLocal(app.cfg.MediaRoot, app.cfg.MediaBaseURL)
			mangas := manga.NewService(manga.NewPostgresRepository(pool), media, app.log)
			chapters := chapter.NewService(chapter.NewPostgresRepository(pool), mangas, media, events.NewBus(app.log), app.log)
			lists := mangalist.NewService(mangalist.NewPostgresRepository(pool), mangas, app.log)
			notifications := notification.NewService(notification.NewPostgresRepository(pool), lists, chapters, app.log)

			created, err := notifications.Replay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d notifications created\n", created)
			return err
		},
	}
}
