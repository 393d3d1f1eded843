// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/manga":   "pgx5://u:p@db:5432/manga",
		"postgresql://u:p@db:5432/manga": "pgx5://u:p@db:5432/manga",
		"pgx5://u:p@db/manga":            "pgx5://u:p@db/manga",
		"host=db user=u":                 "host=db user=u",
	}

	for in, want := range tests {
		assert.Equal(t, want, migration.ToPgx5DSN(in), in)
	}
}
