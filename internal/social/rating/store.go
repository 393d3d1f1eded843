// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
)

// # Data Access

// Repository defines persistence for ratings.
type Repository interface {
	// Upsert inserts or replaces the score of (UserID, MangaID) and reports
	// whether a new row was created.
	Upsert(context context.Context, rating *Rating) (bool, error)

	// Find returns the rating of one user for one manga.
	Find(context context.Context, userID, mangaID string) (*Rating, error)

	// Delete removes the rating of one user for one manga.
	Delete(context context.Context, userID, mangaID string) error

	// Summary computes the average and count for one manga.
	Summary(context context.Context, mangaID string) (*Summary, error)
}
