// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangalist

import (
	"context"
	"time"
)

// # Data Access

// Repository defines persistence for reading lists.
type Repository interface {
	// Upsert sets the status of (UserID, MangaID) and reports whether a new
	// entry was created.
	Upsert(context context.Context, entry *Entry) (bool, error)

	// Find returns one user's entry for one manga.
	Find(context context.Context, userID, mangaID string) (*Entry, error)

	// ListByUser returns a page of a user's entries, most recently changed
	// first, optionally restricted to one status.
	ListByUser(context context.Context, userID string, status *Status, limit, offset int) ([]*Entry, int, error)

	// Delete removes one user's entry for one manga.
	Delete(context context.Context, userID, mangaID string) error

	// Subscribers returns the distinct users whose entry for the manga
	// already existed at asOf.
	Subscribers(context context.Context, mangaID string, asOf time.Time) ([]string, error)
}
