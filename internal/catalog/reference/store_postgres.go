// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Authors

/*
ListAuthors retrieves a filtered and paginated list of authors.

Description: Matches the search term against first and last name with ILIKE
and returns the total through a window function so one round-trip suffices.

Parameters:
  - context: context.Context
  - filter: AuthorFilter
  - limit, offset: int

Returns:
  - []*Author: Paginated results
  - int: Total matching count
  - error: Database execution errors
*/
func (repository *PostgresRepository) ListAuthors(context context.Context, filter AuthorFilter, limit, offset int) ([]*Author, int, error) {
	table := schema.CatalogAuthor

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC, %s ASC, %s ASC
		LIMIT $2 OFFSET $3
	`,
		table.ID, table.FirstName, table.LastName, table.CreatedAt,
		table.Table,
		table.FirstName, table.LastName,
		table.LastName, table.FirstName, table.ID,
	)

	rows, err := repository.db.Query(context, query, filter.Query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	authors := make([]*Author, 0)
	total := 0
	for rows.Next() {
		author := &Author{}
		if err := rows.Scan(&author.ID, &author.FirstName, &author.LastName, &author.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, author)
	}

	return authors, total, dberr.Wrap(rows.Err(), "list_authors")
}

// GetAuthor retrieves a single author by primary key.
func (repository *PostgresRepository) GetAuthor(context context.Context, id int) (*Author, error) {
	table := schema.CatalogAuthor
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.FirstName, table.LastName, table.CreatedAt, table.Table, table.ID)

	author := &Author{}
	err := repository.db.QueryRow(context, query, id).Scan(&author.ID, &author.FirstName, &author.LastName, &author.CreatedAt)
	if err != nil {
		return nil, dberr.WrapEntity(err, "Author", "get_author")
	}
	return author, nil
}

// CreateAuthor persists a new author and fills its ID.
func (repository *PostgresRepository) CreateAuthor(context context.Context, author *Author) error {
	table := schema.CatalogAuthor
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s, %s`,
		table.Table, table.FirstName, table.LastName, table.ID, table.CreatedAt)

	err := repository.db.QueryRow(context, query, author.FirstName, author.LastName).Scan(&author.ID, &author.CreatedAt)
	return dberr.WrapEntity(err, "Author", "create_author")
}

// UpdateAuthor overwrites the names of an existing author.
func (repository *PostgresRepository) UpdateAuthor(context context.Context, author *Author) error {
	table := schema.CatalogAuthor
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 RETURNING %s`,
		table.Table, table.FirstName, table.LastName, table.ID, table.CreatedAt)

	err := repository.db.QueryRow(context, query, author.FirstName, author.LastName, author.ID).Scan(&author.CreatedAt)
	return dberr.WrapEntity(err, "Author", "update_author")
}

// DeleteAuthor removes an author. Manga credits cascade.
func (repository *PostgresRepository) DeleteAuthor(context context.Context, id int) error {
	table := schema.CatalogAuthor
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.WrapEntity(err, "Author", "delete_author")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Author")
	}
	return nil
}

// # Vocabularies

/*
ListNamed retrieves every entry of a vocabulary ordered by name.

Parameters:
  - context: context.Context
  - kind: Kind

Returns:
  - []*Named: All entries (never nil)
  - error: Unknown kind or database failures
*/
func (repository *PostgresRepository) ListNamed(context context.Context, kind Kind) ([]*Named, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`, table.ID, table.Name, table.Table, table.Name)
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_"+string(kind))
	}

	entries, err := pgx.CollectRows(rows, scanNamed)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_"+string(kind))
	}
	return entries, nil
}

// GetNamed retrieves one vocabulary entry by ID.
func (repository *PostgresRepository) GetNamed(context context.Context, kind Kind, id int) (*Named, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`, table.ID, table.Name, table.Table, table.ID)
	named := &Named{}
	if err := repository.db.QueryRow(context, query, id).Scan(&named.ID, &named.Name); err != nil {
		return nil, dberr.WrapEntity(err, kind.Label(), "get_"+string(kind))
	}
	return named, nil
}

// CreateNamed persists a new entry. Duplicate names yield CONFLICT.
func (repository *PostgresRepository) CreateNamed(context context.Context, kind Kind, named *Named) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s`, table.Table, table.Name, table.ID)
	err = repository.db.QueryRow(context, query, named.Name).Scan(&named.ID)
	return wrapNamedErr(err, kind, table, "create_"+string(kind))
}

// UpdateNamed renames an entry. Duplicate names yield CONFLICT.
func (repository *PostgresRepository) UpdateNamed(context context.Context, kind Kind, named *Named) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table.Table, table.Name, table.ID)
	result, err := repository.db.Exec(context, query, named.Name, named.ID)
	if err != nil {
		return wrapNamedErr(err, kind, table, "update_"+string(kind))
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(kind.Label())
	}
	return nil
}

// DeleteNamed removes an entry. Categories still referenced by a manga
// cannot be removed.
func (repository *PostgresRepository) DeleteNamed(context context.Context, kind Kind, id int) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)
	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return apperr.Conflict(kind.Label() + " is still used by manga").WithCause(err)
		}
		return dberr.WrapEntity(err, kind.Label(), "delete_"+string(kind))
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(kind.Label())
	}
	return nil
}

/*
SeedNamed inserts the given names in one batch, skipping existing ones.

Description: Every name is queued into a single [pgx.Batch] with
ON CONFLICT DO NOTHING, so the operation is idempotent and safe to rerun.

Returns:
  - int: Number of rows actually inserted
  - error: Database failures
*/
func (repository *PostgresRepository) SeedNamed(context context.Context, kind Kind, names []string) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING`, table.Table, table.Name, table.Name)

	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(query, name)
	}

	results := repository.db.SendBatch(context, batch)
	defer results.Close()

	inserted := 0
	for range names {
		tag, err := results.Exec()
		if err != nil {
			return inserted, dberr.Wrap(err, "seed_"+string(kind))
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// # Helpers

func tableFor(kind Kind) (schema.NamedTable, error) {
	table, ok := kind.Table()
	if !ok {
		return table, apperr.NotFound("Reference kind")
	}
	return table, nil
}

func scanNamed(row pgx.CollectableRow) (*Named, error) {
	named := &Named{}
	err := row.Scan(&named.ID, &named.Name)
	return named, err
}

func wrapNamedErr(err error, kind Kind, table schema.NamedTable, action string) error {
	if dberr.IsUniqueViolation(err, table.NameKey) {
		return apperr.Conflict(kind.Label() + " with this name already exists").WithCause(err)
	}
	return dberr.WrapEntity(err, kind.Label(), action)
}
