// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taibuivan/mangashelf/internal/catalog/reference"
)

func (app *cli) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the default genres, tags, countries and categories",
		Long:  "Seed inserts the default reference vocabularies. Names that already exist are skipped, so the command can be run repeatedly.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			service := reference.NewService(reference.NewPostgresRepository(pool), app.log)
			result, err := service.Seed(cmd.Context())
			if err != nil {
				return err
			}

			kinds := make([]string, 0, len(result))
			for kind := range result {
				kinds = append(kinds, string(kind))
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d inserted\n", kind, result[reference.Kind(kind)]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
