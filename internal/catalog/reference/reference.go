/*
Package reference manages the master data of the catalogue.

Reference entities are shared across many manga and are the values the
discovery filters match on.

# Core Responsibility

  - Authorship: [Author] records with first and last name.
  - Facets: flat [Named] vocabularies of countries, genres, tags and categories,
    each with unique display names.
  - Discovery: [Facets] bundles every vocabulary for the filter sidebar.

Reads are public. Writes are reserved for editors and above.
*/
package reference

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
)

// # Contributor Domain

// Author represents a writer or illustrator credited on a manga.
type Author struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"-"`
}

// # Vocabulary Domain

// Kind selects one of the flat name-only vocabularies.
type Kind string

const (
	KindCountry  Kind = "countries"
	KindGenre    Kind = "genres"
	KindTag      Kind = "tags"
	KindCategory Kind = "categories"
)

// Kinds lists every vocabulary in display order.
var Kinds = []Kind{KindCountry, KindGenre, KindTag, KindCategory}

// Table returns the schema of the vocabulary. ok is false for unknown kinds.
func (k Kind) Table() (schema.NamedTable, bool) {
	switch k {
	case KindCountry:
		return schema.CatalogCountry, true
	case KindGenre:
		return schema.CatalogGenre, true
	case KindTag:
		return schema.CatalogTag, true
	case KindCategory:
		return schema.CatalogCategory, true
	}
	return schema.NamedTable{}, false
}

// Label is the singular resource name used in error messages.
func (k Kind) Label() string {
	switch k {
	case KindCountry:
		return "Country"
	case KindGenre:
		return "Genre"
	case KindTag:
		return "Tag"
	case KindCategory:
		return "Category"
	}
	return "Reference"
}

// Named is one entry of a vocabulary (a country, genre, tag or category).
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Facets is the complete filter vocabulary returned in one payload.
type Facets struct {
	Authors    []*Author `json:"authors"`
	Countries  []*Named  `json:"countries"`
	Genres     []*Named  `json:"genres"`
	Tags       []*Named  `json:"tags"`
	Categories []*Named  `json:"categories"`
}

// # Search Params

// AuthorFilter holds the parameters for a paginated author search.
type AuthorFilter struct {
	Query string // ILIKE match against first and last name
}

// # Field Identifiers

const (
	FieldName      = "name"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
)
