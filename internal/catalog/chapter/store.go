// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Data Access

// Repository defines persistence for chapters and pages.
type Repository interface {

	// ListByManga returns a page of chapters, newest volume and number first.
	ListByManga(context context.Context, mangaID string, limit, offset int) ([]*Chapter, int, error)

	// Latest returns the most recently added chapters with their manga.
	Latest(context context.Context, limit int) ([]*Chapter, error)

	// FindBySlug returns the chapter with its manga identity.
	FindBySlug(context context.Context, slug string) (*Chapter, error)

	// FindByID returns the chapter with its manga identity.
	FindByID(context context.Context, id string) (*Chapter, error)

	/*
		Create inserts a chapter.

		Returns:
		  - error: CONFLICT when (manga, volume, number) or the slug is taken
	*/
	Create(context context.Context, chapter *Chapter) error

	// Update writes title, volume, number and slug of an existing chapter.
	Update(context context.Context, chapter *Chapter) error

	// Delete removes the chapter; pages, comments and notifications cascade.
	Delete(context context.Context, id string) error

	// ListPages returns the pages of a chapter in reading order.
	ListPages(context context.Context, chapterID string) ([]*Page, error)

	/*
		AddPage inserts a page. A zero PageNumber asks the database for the
		next free number within the chapter.

		Returns:
		  - error: CONFLICT wrapping the unique violation when the number is taken
	*/
	AddPage(context context.Context, page *Page) error

	// FindPage returns one page.
	FindPage(context context.Context, id string) (*Page, error)

	// DeletePage removes one page.
	DeletePage(context context.Context, id string) error
}
