// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
)

// # Service Layer

// Service orchestrates business rules for reference data.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new reference [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Facets

/*
Facets returns every author and vocabulary in one payload, as consumed by the
manga filter sidebar.

Parameters:
  - context: context.Context

Returns:
  - *Facets: All filterable values
  - error: Retrieval failures
*/
func (service *Service) Facets(context context.Context) (*Facets, error) {
	facets := &Facets{}
	targets := map[Kind]*[]*Named{
		KindCountry:  &facets.Countries,
		KindGenre:    &facets.Genres,
		KindTag:      &facets.Tags,
		KindCategory: &facets.Categories,
	}

	group, groupContext := errgroup.WithContext(context)
	group.Go(func() error {
		authors, _, err := service.repo.ListAuthors(groupContext, AuthorFilter{}, maxFacetAuthors, 0)
		facets.Authors = authors
		return err
	})
	for _, kind := range Kinds {
		target := targets[kind]
		group.Go(func() error {
			entries, err := service.repo.ListNamed(groupContext, kind)
			*target = entries
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return facets, nil
}

// maxFacetAuthors bounds the author list embedded in [Facets].
const maxFacetAuthors = 1000

// # Author Methods

// ListAuthors provides a paginated search over authors.
func (service *Service) ListAuthors(context context.Context, filter AuthorFilter, limit, offset int) ([]*Author, int, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return service.repo.ListAuthors(context, filter, limit, offset)
}

// GetAuthor retrieves one author.
func (service *Service) GetAuthor(context context.Context, id int) (*Author, error) {
	return service.repo.GetAuthor(context, id)
}

/*
CreateAuthor validates and persists a new author.

Parameters:
  - context: context.Context
  - author: *Author

Returns:
  - error: VALIDATION_ERROR or storage errors
*/
func (service *Service) CreateAuthor(context context.Context, author *Author) error {
	if err := validateAuthor(author); err != nil {
		return err
	}

	if err := service.repo.CreateAuthor(context, author); err != nil {
		return err
	}

	service.logger.Info("author_created", slog.Int("author_id", author.ID))
	return nil
}

// UpdateAuthor replaces the names of an existing author.
func (service *Service) UpdateAuthor(context context.Context, id int, author *Author) error {
	author.ID = id
	if err := validateAuthor(author); err != nil {
		return err
	}
	return service.repo.UpdateAuthor(context, author)
}

// DeleteAuthor removes the author and its credits.
func (service *Service) DeleteAuthor(context context.Context, id int) error {
	if err := service.repo.DeleteAuthor(context, id); err != nil {
		return err
	}

	service.logger.Info("author_deleted", slog.Int("author_id", id))
	return nil
}

func validateAuthor(author *Author) error {
	author.FirstName = strings.TrimSpace(author.FirstName)
	author.LastName = strings.TrimSpace(author.LastName)

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, author.FirstName).MaxLen(FieldFirstName, author.FirstName, 100)
	validator.MaxLen(FieldLastName, author.LastName, 100)
	return validator.Err()
}

// # Vocabulary Methods

// List returns every entry of one vocabulary.
func (service *Service) List(context context.Context, kind Kind) ([]*Named, error) {
	if _, ok := kind.Table(); !ok {
		return nil, apperr.NotFound("Reference kind")
	}
	return service.repo.ListNamed(context, kind)
}

// Get returns one vocabulary entry.
func (service *Service) Get(context context.Context, kind Kind, id int) (*Named, error) {
	return service.repo.GetNamed(context, kind, id)
}

/*
Create adds a vocabulary entry.

Parameters:
  - context: context.Context
  - kind: Kind
  - named: *Named (Name required, at most 100 characters)

Returns:
  - error: VALIDATION_ERROR, CONFLICT on duplicate names, or storage errors
*/
func (service *Service) Create(context context.Context, kind Kind, named *Named) error {
	if err := validateNamed(named); err != nil {
		return err
	}

	if err := service.repo.CreateNamed(context, kind, named); err != nil {
		return err
	}

	service.logger.Info("reference_created", slog.String("kind", string(kind)), slog.Int("id", named.ID))
	return nil
}

// Update renames a vocabulary entry.
func (service *Service) Update(context context.Context, kind Kind, id int, named *Named) error {
	named.ID = id
	if err := validateNamed(named); err != nil {
		return err
	}
	return service.repo.UpdateNamed(context, kind, named)
}

// Delete removes a vocabulary entry.
func (service *Service) Delete(context context.Context, kind Kind, id int) error {
	return service.repo.DeleteNamed(context, kind, id)
}

func validateNamed(named *Named) error {
	named.Name = strings.TrimSpace(named.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, named.Name).MaxLen(FieldName, named.Name, 100)
	return validator.Err()
}

// # Seeding

// SeedResult reports how many rows each vocabulary received.
type SeedResult map[Kind]int

/*
Seed installs the default genre, tag, country and category vocabularies.
Existing names are left untouched, so running it twice inserts nothing new.

Returns:
  - SeedResult: Inserted row count per kind
  - error: First storage failure
*/
func (service *Service) Seed(context context.Context) (SeedResult, error) {
	defaults := map[Kind][]string{
		KindGenre:    SeedGenres,
		KindTag:      SeedTags,
		KindCountry:  SeedCountries,
		KindCategory: SeedCategories,
	}

	result := SeedResult{}
	for _, kind := range Kinds {
		inserted, err := service.repo.SeedNamed(context, kind, defaults[kind])
		if err != nil {
			return result, err
		}
		result[kind] = inserted
	}

	service.logger.Info("reference_seeded",
		slog.Int("genres", result[KindGenre]),
		slog.Int("tags", result[KindTag]),
		slog.Int("countries", result[KindCountry]),
		slog.Int("categories", result[KindCategory]),
	)
	return result, nil
}
