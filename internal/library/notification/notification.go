// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notification delivers "new chapter" notices to every user who keeps
the chapter's manga on their reading list.

Notices are created once per (user, chapter). Fanning the same chapter out
again, for example from the maintenance CLI, creates nothing new.
*/
package notification

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
)

// ChapterRef identifies the chapter a notification announces.
type ChapterRef struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Volume int        `json:"volume"`
	Number int        `json:"chapter_number"`
	Slug   string     `json:"slug"`
	Manga  *manga.Ref `json:"manga"`
}

// Notification is one unread or read notice in a user's inbox.
type Notification struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Chapter   *ChapterRef `json:"chapter"`
	IsRead    bool        `json:"is_read"`
	CreatedAt time.Time   `json:"created_at"`
}

const (
	FieldUnread = "unread"
	FieldCount  = "count"
	FieldMarked = "marked"
)
