// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment stores free-text comments attached to either a manga or a
chapter, never both.

The parent is modelled as a closed union: a [Parent] can only be built with
[MangaParent] or [ChapterParent], and the database enforces that exactly one
of the two foreign keys is set.
*/
package comment

import (
	"encoding/json"
	"time"
)

// ParentKind identifies which entity a comment is attached to.
type ParentKind string

const (
	KindManga   ParentKind = "manga"
	KindChapter ParentKind = "chapter"
)

// Parent is the entity a comment belongs to.
type Parent struct {
	kind ParentKind
	id   string
}

// MangaParent attaches a comment to a manga.
func MangaParent(mangaID string) Parent {
	return Parent{kind: KindManga, id: mangaID}
}

// ChapterParent attaches a comment to a chapter.
func ChapterParent(chapterID string) Parent {
	return Parent{kind: KindChapter, id: chapterID}
}

// Kind reports whether the comment hangs off a manga or a chapter.
func (p Parent) Kind() ParentKind { return p.kind }

// ID returns the identifier of the manga or chapter the comment belongs to.
func (p Parent) ID() string { return p.id }

// IsZero reports whether the parent was never set.
func (p Parent) IsZero() bool { return p.kind == "" }

func (p Parent) resource() string {
	if p.kind == KindChapter {
		return "Chapter"
	}
	return "Manga"
}

// MarshalJSON renders the parent as {"type": "...", "id": "..."}.
func (p Parent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type ParentKind `json:"type"`
		ID   string     `json:"id"`
	}{p.kind, p.id})
}

// Comment is a user's text on a manga or chapter.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Parent    Parent    `json:"parent"`
	Content   string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Target names the parent of a new comment by slug. Exactly one of the two
// fields must be set.
type Target struct {
	MangaSlug   string `json:"manga"`
	ChapterSlug string `json:"chapter"`
}

const (
	FieldContent = "text"
	FieldParent  = "parent"

	maxContentLength = 2000
)
