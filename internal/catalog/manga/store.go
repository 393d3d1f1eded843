// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"time"
)

// # Data Access

// Repository defines the persistence contract for the manga aggregate.
type Repository interface {

	/*
		List returns a filtered, paginated page of manga summaries.

		Parameters:
		  - context: context.Context
		  - filter: Filter (facets, decency, min rating, search, ordering)
		  - limit, offset: int

		Returns:
		  - []*Manga: Summaries without association lists
		  - int: Total matching count
		  - error: Database execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error)

	// Ranking returns one top-list, capped at the top-list limit.
	Ranking(context context.Context, ranking Ranking, now time.Time) ([]*Manga, error)

	// FindBySlug returns the fully hydrated manga.
	FindBySlug(context context.Context, slug string) (*Manga, error)

	// FindRef resolves a slug into the identity used by dependent packages.
	FindRef(context context.Context, slug string) (*Ref, error)

	// Count returns the number of manga in the catalogue.
	Count(context context.Context) (int, error)

	// FindByOffset returns the manga at position offset in id order.
	FindByOffset(context context.Context, offset int) (*Manga, error)

	/*
		Create inserts the manga and its associations in one transaction.

		Returns:
		  - error: CONFLICT on duplicate canonical key or slug
	*/
	Create(context context.Context, manga *Manga, associations Associations) error

	// Update applies patch to the manga identified by id.
	Update(context context.Context, id string, patch Patch) error

	// Delete removes the manga; chapters, ratings and comments cascade.
	Delete(context context.Context, id string) error

	// SetAvatar stores a new avatar reference, clears the thumbnail and
	// returns the references it replaced.
	SetAvatar(context context.Context, id, avatar string) (previousAvatar, previousThumbnail string, err error)

	// SetThumbnail stores the thumbnail derived from avatar. It reports false
	// when the avatar has been replaced in the meantime.
	SetThumbnail(context context.Context, id, avatar, thumbnail string) (bool, error)
}
