// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mangalist keeps each user's reading list: at most one status per
(user, manga). Every user with an entry for a manga, whatever its status, is
a subscriber of that manga and is notified of new chapters.
*/
package mangalist

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
)

// Status is the named shelf a manga sits on.
type Status string

const (
	StatusReading       Status = "Reading"
	StatusPlanToRead    Status = "Plan to Read"
	StatusCompleted     Status = "Completed"
	StatusDropped       Status = "Dropped"
	StatusOnHold        Status = "On Hold"
	StatusNotInterested Status = "Not Interested"
)

// Statuses lists every accepted [Status].
var Statuses = []string{
	string(StatusReading),
	string(StatusPlanToRead),
	string(StatusCompleted),
	string(StatusDropped),
	string(StatusOnHold),
	string(StatusNotInterested),
}

// Entry is one manga on a user's list.
type Entry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	MangaID   string     `json:"-"`
	Manga     *manga.Ref `json:"manga,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const FieldStatus = "status"
