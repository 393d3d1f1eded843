// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used as primary keys for
users, manga, chapters, pages, comments and notifications, and as request IDs.

Version 7 values sort by creation time, which keeps Postgres B-tree inserts local.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string. It panics only if the system entropy
// source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
