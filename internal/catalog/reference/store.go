// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import "context"

// # Reference Data Access

// Repository defines the data access contract for reference and master data.
type Repository interface {

	// ## Author Data Access

	/*
		ListAuthors retrieves a filtered and paginated list of authors.

		Parameters:
		  - context: context.Context
		  - filter: AuthorFilter (Search parameters)
		  - limit, offset: int (Pagination bounds)

		Returns:
		  - []*Author: Paginated matching results
		  - int: Total matching count for pagination metadata
		  - error: Database execution errors
	*/
	ListAuthors(context context.Context, filter AuthorFilter, limit, offset int) ([]*Author, int, error)

	// GetAuthor retrieves a single author by primary key.
	GetAuthor(context context.Context, id int) (*Author, error)

	// CreateAuthor persists a new author and fills its ID.
	CreateAuthor(context context.Context, author *Author) error

	// UpdateAuthor overwrites the names of an existing author.
	UpdateAuthor(context context.Context, author *Author) error

	// DeleteAuthor removes an author and its manga credits.
	DeleteAuthor(context context.Context, id int) error

	// ## Vocabulary Data Access

	/*
		ListNamed retrieves every entry of a vocabulary ordered by name.

		Parameters:
		  - context: context.Context
		  - kind: Kind (countries, genres, tags, categories)

		Returns:
		  - []*Named: All entries
		  - error: Database retrieval failures
	*/
	ListNamed(context context.Context, kind Kind) ([]*Named, error)

	// GetNamed retrieves one vocabulary entry by ID.
	GetNamed(context context.Context, kind Kind, id int) (*Named, error)

	// CreateNamed persists a new entry. Duplicate names yield CONFLICT.
	CreateNamed(context context.Context, kind Kind, named *Named) error

	// UpdateNamed renames an entry. Duplicate names yield CONFLICT.
	UpdateNamed(context context.Context, kind Kind, named *Named) error

	// DeleteNamed removes an entry.
	DeleteNamed(context context.Context, kind Kind, id int) error

	/*
		SeedNamed inserts the given names, skipping those already present.

		Returns:
		  - int: Number of rows actually inserted
		  - error: Database failures
	*/
	SeedNamed(context context.Context, kind Kind, names []string) (int, error)
}
