// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package rating stores one score per user and manga.

Submitting a second score for the same manga replaces the first one in a
single atomic upsert. The average shown on a manga is computed from the
stored scores on every read and is undefined while no score exists.
*/
package rating

import "time"

// Rating is a user's score for one manga.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MangaID   string    `json:"manga_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary aggregates the scores of one manga.
type Summary struct {
	// Average is nil when Count is zero.
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

const (
	MinScore = 1
	MaxScore = 5

	FieldScore = "score"
)
