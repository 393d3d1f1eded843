// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manga manages the central catalogue aggregate.

A [Manga] references one category and sets of authors, countries, genres and
tags. Its slug is derived once from the immutable canonical key. The average
rating and the comment count are computed on read and never stored.

# Discovery

  - Faceted filtering with include/exclude lists per facet ([Filter]).
  - Ranked views capped at 100 rows ([Ranking]).
  - A random "spotlight" pair for the landing page.

# Artwork

The avatar is the authoritative image. The thumbnail is a derived 120x170 PNG
regenerated after each avatar upload, and lazily when missing.
*/
package manga

import (
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/reference"
)

// # Aggregate

// Manga is a catalogue entry with its reference associations and read-time
// aggregates.
type Manga struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	CanonicalKey string `json:"canonical_key"`
	Slug         string `json:"slug"`
	Decency      bool   `json:"decency"`
	Review       string `json:"review"`

	Category   *reference.Named   `json:"category"`
	Authors    []reference.Author `json:"authors,omitempty"`
	Countries  []reference.Named  `json:"countries,omitempty"`
	Genres     []reference.Named  `json:"genres,omitempty"`
	Tags       []reference.Named  `json:"tags,omitempty"`
	CategoryID int                `json:"-"`

	// Blob references; public URLs are filled by the service.
	Avatar       string `json:"-"`
	Thumbnail    string `json:"-"`
	AvatarURL    string `json:"avatar_url"`
	ThumbnailURL string `json:"thumbnail_url"`

	// AverageRating is nil while the manga has no ratings.
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
	CommentCount  int      `json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref is the minimal identity other packages need to attach to a manga.
type Ref struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	CanonicalKey string `json:"-"`
}

// Ref returns the identity of m.
func (m *Manga) Ref() *Ref {
	return &Ref{ID: m.ID, Name: m.Name, Slug: m.Slug, CanonicalKey: m.CanonicalKey}
}

// Associations holds the reference IDs written alongside a manga. A nil slice
// leaves the stored set untouched on update; an empty slice clears it.
type Associations struct {
	AuthorIDs  []int `json:"author_ids"`
	CountryIDs []int `json:"country_ids"`
	GenreIDs   []int `json:"genre_ids"`
	TagIDs     []int `json:"tag_ids"`
}

// # Write Models

// CreateInput carries the fields accepted when creating a manga.
type CreateInput struct {
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	CanonicalKey string `json:"canonical_key"`
	CategoryID   int    `json:"category_id"`
	Decency      bool   `json:"decency"`
	Review       string `json:"review"`
	Associations
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Name         *string `json:"name"`
	OriginalName *string `json:"original_name"`
	CanonicalKey *string `json:"canonical_key"`
	CategoryID   *int    `json:"category_id"`
	Decency      *bool   `json:"decency"`
	Review       *string `json:"review"`
	Associations
}

// # Discovery

// Ordering values accepted by [Filter].
const (
	OrderNameAsc       = "name"
	OrderNameDesc      = "-name"
	OrderCreatedAtAsc  = "created_at"
	OrderCreatedAtDesc = "-created_at"
)

// Orderings lists every accepted ordering.
var Orderings = []string{OrderNameAsc, OrderNameDesc, OrderCreatedAtAsc, OrderCreatedAtDesc}

// Filter selects manga by facet. Include lists match by exact name, OR within
// a facet and AND across facets; an empty list means no constraint. Exclude
// lists drop any manga having at least one listed value.
type Filter struct {
	Genres     []string
	Tags       []string
	Countries  []string
	Categories []string

	ExcludeGenres     []string
	ExcludeTags       []string
	ExcludeCountries  []string
	ExcludeCategories []string

	// Decency is tri-state: nil matches both.
	Decency *bool

	// MinRating keeps manga whose average is at least this value. Values <= 0
	// disable the filter; otherwise unrated manga are excluded.
	MinRating *int

	// Query is a case-insensitive substring match on the names and key.
	Query string

	Ordering string
}

// Ranking selects one of the top-list views.
type Ranking string

const (
	RankTopRated     Ranking = "top_rated"
	RankTopRatedYear Ranking = "top_rated_year"
	RankMostComment  Ranking = "most_commented"
)

// # Field Identifiers

const (
	FieldName         = "name"
	FieldOriginalName = "original_name"
	FieldCanonicalKey = "canonical_key"
	FieldCategoryID   = "category_id"
	FieldReview       = "review"
	FieldOrdering     = "ordering"
	FieldMinRating    = "min_rating"
	FieldAvatar       = "avatar"
)

// Storage folders for manga artwork.
const (
	AvatarDir    = "manga/avatars"
	ThumbnailDir = "manga/thumbnails"
)
