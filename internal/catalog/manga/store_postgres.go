// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package manga provides the PostgreSQL implementation for the catalogue's data access.

It relies on a few Postgres features to keep reads to a single round-trip:
  - LATERAL aggregates compute the average rating and comment count per row.
  - Window Functions return the total result count alongside the page.
  - JSON Aggregation loads the association sets of a detail view.

Writes to the aggregate and its junction tables share one transaction.
*/
package manga

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/catalog/reference"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/internal/platform/postgres"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed manga store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Reads

// List executes the query produced by [BuildListQuery].
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	query, args := BuildListQuery(filter, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_manga")
	}
	defer rows.Close()

	items := make([]*Manga, 0)
	total := 0
	for rows.Next() {
		manga, dest := summaryTargets()
		if err := rows.Scan(append(dest, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_manga")
		}
		items = append(items, manga.finish())
	}

	return items, total, dberr.Wrap(rows.Err(), "list_manga")
}

// Ranking executes the query produced by [BuildRankingQuery].
func (repository *PostgresRepository) Ranking(context context.Context, ranking Ranking, now time.Time) ([]*Manga, error) {
	query, args, err := BuildRankingQuery(ranking, now)
	if err != nil {
		return nil, apperr.NotFound("Ranking")
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "rank_manga")
	}
	defer rows.Close()

	items := make([]*Manga, 0)
	for rows.Next() {
		manga, dest := summaryTargets()
		if err := rows.Scan(dest...); err != nil {
			return nil, dberr.Wrap(err, "scan_manga")
		}
		items = append(items, manga.finish())
	}

	return items, dberr.Wrap(rows.Err(), "rank_manga")
}

/*
FindBySlug retrieves a manga with every association.

Description: Extends the summary projection with four json_agg subqueries so
authors, countries, genres and tags arrive in the same row.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Manga: Hydrated aggregate
  - error: NOT_FOUND when no manga has this slug
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Manga, error) {
	query := fmt.Sprintf(`SELECT%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', a.%s, 'first_name', a.%s, 'last_name', a.%s) ORDER BY a.%s)
				FROM %s j JOIN %s a ON a.%s = j.%s WHERE j.%s = m.%s
			), '[]'),
			%s, %s, %s
		%s
		WHERE m.%s = $1`,
		summaryColumns,
		schema.CatalogAuthor.ID, schema.CatalogAuthor.FirstName, schema.CatalogAuthor.LastName, schema.CatalogAuthor.ID,
		schema.MangaAuthor.Table, schema.CatalogAuthor.Table, schema.CatalogAuthor.ID, schema.MangaAuthor.RefID,
		schema.MangaAuthor.MangaID, schema.CatalogManga.ID,
		namedAggregate(schema.MangaCountry, schema.CatalogCountry),
		namedAggregate(schema.MangaGenre, schema.CatalogGenre),
		namedAggregate(schema.MangaTag, schema.CatalogTag),
		summaryFrom,
		schema.CatalogManga.Slug,
	)

	manga, dest := summaryTargets()
	var authorsJSON, countriesJSON, genresJSON, tagsJSON []byte

	err := repository.pool.QueryRow(context, query, slug).Scan(append(dest, &authorsJSON, &countriesJSON, &genresJSON, &tagsJSON)...)
	if err != nil {
		return nil, dberr.WrapEntity(err, "Manga", "find_manga_by_slug")
	}

	result := manga.finish()
	associations := []struct {
		raw    []byte
		target any
	}{
		{authorsJSON, &result.Authors},
		{countriesJSON, &result.Countries},
		{genresJSON, &result.Genres},
		{tagsJSON, &result.Tags},
	}
	for _, association := range associations {
		if err := json.Unmarshal(association.raw, association.target); err != nil {
			return nil, apperr.Internal(fmt.Errorf("postgres: failed to unmarshal associations: %w", err))
		}
	}

	return result, nil
}

func namedAggregate(junction schema.JunctionTable, ref schema.NamedTable) string {
	return fmt.Sprintf(`COALESCE((
				SELECT json_agg(json_build_object('id', f.%s, 'name', f.%s) ORDER BY f.%s)
				FROM %s j JOIN %s f ON f.%s = j.%s WHERE j.%s = m.%s
			), '[]')`,
		ref.ID, ref.Name, ref.Name,
		junction.Table, ref.Table, ref.ID, junction.RefID, junction.MangaID, schema.CatalogManga.ID)
}

// FindRef resolves a slug into a [Ref].
func (repository *PostgresRepository) FindRef(context context.Context, slug string) (*Ref, error) {
	table := schema.CatalogManga
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.CanonicalKey, table.Table, table.Slug)

	ref := &Ref{}
	if err := repository.pool.QueryRow(context, query, slug).Scan(&ref.ID, &ref.Name, &ref.Slug, &ref.CanonicalKey); err != nil {
		return nil, dberr.WrapEntity(err, "Manga", "find_manga_ref")
	}
	return ref, nil
}

// Count returns the catalogue size.
func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogManga.Table)
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_manga")
	}
	return total, nil
}

// FindByOffset returns the summary at position offset in id order.
func (repository *PostgresRepository) FindByOffset(context context.Context, offset int) (*Manga, error) {
	query := fmt.Sprintf("SELECT%s%s\n\t\tORDER BY m.%s ASC OFFSET $1 LIMIT 1", summaryColumns, summaryFrom, schema.CatalogManga.ID)

	manga, dest := summaryTargets()
	if err := repository.pool.QueryRow(context, query, offset).Scan(dest...); err != nil {
		return nil, dberr.WrapEntity(err, "Manga", "find_manga_by_offset")
	}
	return manga.finish(), nil
}

// # Writes

/*
Create persists a new manga and its associations.

Description: Inserts the root row and then synchronises the four junction
tables inside one transaction, so a failing association rolls back the manga.

Parameters:
  - context: context.Context
  - manga: *Manga (ID, slug and fields already populated by the service)
  - associations: Associations

Returns:
  - error: CONFLICT on duplicate canonical key/slug, NOT_FOUND on unknown references
*/
func (repository *PostgresRepository) Create(context context.Context, manga *Manga, associations Associations) error {
	table := schema.CatalogManga

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s
	`,
		table.Table,
		table.ID, table.CategoryID, table.Name, table.OriginalName, table.CanonicalKey, table.Decency, table.Review, table.Slug,
		table.CreatedAt, table.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			manga.ID, manga.CategoryID, manga.Name, manga.OriginalName, manga.CanonicalKey, manga.Decency, manga.Review, manga.Slug,
		).Scan(&manga.CreatedAt, &manga.UpdatedAt)
		if err != nil {
			return wrapWriteErr(err, "create_manga")
		}

		return syncAssociations(context, transaction, manga.ID, associations)
	})
}

/*
Update applies a partial update.

Description: Builds the SET list from the non-nil fields of the patch. The
slug and canonical key are never part of it. Junction sets given in the patch
are replaced wholesale.

Returns:
  - error: NOT_FOUND if the manga is missing, or constraint errors
*/
func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) error {
	table := schema.CatalogManga

	var builder strings.Builder
	fmt.Fprintf(&builder, "UPDATE %s SET %s = NOW()", table.Table, table.UpdatedAt)

	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		fmt.Fprintf(&builder, ", %s = $%d", column, len(args))
	}

	if patch.Name != nil {
		set(table.Name, *patch.Name)
	}
	if patch.OriginalName != nil {
		set(table.OriginalName, *patch.OriginalName)
	}
	if patch.CategoryID != nil {
		set(table.CategoryID, *patch.CategoryID)
	}
	if patch.Decency != nil {
		set(table.Decency, *patch.Decency)
	}
	if patch.Review != nil {
		set(table.Review, *patch.Review)
	}

	args = append(args, id)
	fmt.Fprintf(&builder, " WHERE %s = $%d", table.ID, len(args))

	return postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		result, err := transaction.Exec(context, builder.String(), args...)
		if err != nil {
			return wrapWriteErr(err, "update_manga")
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("Manga")
		}

		return syncAssociations(context, transaction, id, patch.Associations)
	})
}

// Delete removes the manga row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogManga.Table, schema.CatalogManga.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.WrapEntity(err, "Manga", "delete_manga")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Manga")
	}
	return nil
}

// SetAvatar swaps the avatar reference and clears the derived thumbnail.
func (repository *PostgresRepository) SetAvatar(context context.Context, id, avatar string) (string, string, error) {
	table := schema.CatalogManga

	// The old row is read in a CTE because RETURNING only sees new values.
	query := fmt.Sprintf(`
		WITH previous AS (
			SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE
		)
		UPDATE %s m SET %s = $2, %s = NULL, %s = NOW()
		FROM previous
		WHERE m.%s = $1
		RETURNING previous.%s, previous.%s
	`,
		table.Avatar, table.Thumbnail, table.Table, table.ID,
		table.Table, table.Avatar, table.Thumbnail, table.UpdatedAt,
		table.ID,
		table.Avatar, table.Thumbnail,
	)

	var previousAvatar, previousThumbnail *string
	if err := repository.pool.QueryRow(context, query, id, avatar).Scan(&previousAvatar, &previousThumbnail); err != nil {
		return "", "", dberr.WrapEntity(err, "Manga", "set_manga_avatar")
	}
	return pointer.Val(previousAvatar), pointer.Val(previousThumbnail), nil
}

// SetThumbnail stores thumbnail only while avatar is still current.
func (repository *PostgresRepository) SetThumbnail(context context.Context, id, avatar, thumbnail string) (bool, error) {
	table := schema.CatalogManga
	query := fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`,
		table.Table, table.Thumbnail, table.ID, table.Avatar)

	result, err := repository.pool.Exec(context, query, id, avatar, thumbnail)
	if err != nil {
		return false, dberr.WrapEntity(err, "Manga", "set_manga_thumbnail")
	}
	return result.RowsAffected() > 0, nil
}

// # Helpers

// summaryRow collects the nullable columns of a summary before they are
// folded into a [Manga].
type summaryRow struct {
	manga        *Manga
	categoryName string
	avatar       *string
	thumbnail    *string
}

// summaryTargets returns scan destinations matching summaryColumns.
func summaryTargets() (*summaryRow, []any) {
	row := &summaryRow{manga: &Manga{}}
	m := row.manga
	return row, []any{
		&m.ID, &m.CategoryID, &row.categoryName, &m.Name, &m.OriginalName, &m.CanonicalKey,
		&m.Decency, &m.Review, &row.avatar, &row.thumbnail, &m.Slug,
		&m.CreatedAt, &m.UpdatedAt,
		&m.AverageRating, &m.RatingCount, &m.CommentCount,
	}
}

func (row *summaryRow) finish() *Manga {
	m := row.manga
	m.Category = &reference.Named{ID: m.CategoryID, Name: row.categoryName}
	m.Avatar = pointer.Val(row.avatar)
	m.Thumbnail = pointer.Val(row.thumbnail)
	return m
}

// syncAssociations replaces every junction set that is non-nil.
func syncAssociations(context context.Context, transaction pgx.Tx, mangaID string, associations Associations) error {
	sets := []struct {
		junction schema.JunctionTable
		ids      []int
	}{
		{schema.MangaAuthor, associations.AuthorIDs},
		{schema.MangaCountry, associations.CountryIDs},
		{schema.MangaGenre, associations.GenreIDs},
		{schema.MangaTag, associations.TagIDs},
	}

	for _, set := range sets {
		if set.ids == nil {
			continue
		}
		if err := updateJunction(context, transaction, set.junction, mangaID, set.ids); err != nil {
			return err
		}
	}
	return nil
}

/*
updateJunction synchronizes one many-to-many association.

Description: Clears the existing links of the manga and queues the new ones in
a single [pgx.Batch]. Duplicate IDs in the input are inserted once.

Returns:
  - error: NOT_FOUND when an ID references no row
*/
func updateJunction(context context.Context, transaction pgx.Tx, junction schema.JunctionTable, mangaID string, ids []int) error {
	clear := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", junction.Table, junction.MangaID)
	if _, err := transaction.Exec(context, clear, mangaID); err != nil {
		return dberr.Wrap(err, "clear_"+junction.Table)
	}

	if len(ids) == 0 {
		return nil
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		junction.Table, junction.MangaID, junction.RefID)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(insert, mangaID, id)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.WrapEntity(err, "Referenced "+strings.TrimSuffix(junction.RefID, "id"), "sync_"+junction.Table)
	}
	return nil
}

func wrapWriteErr(err error, action string) error {
	switch {
	case dberr.IsUniqueViolation(err, schema.CatalogManga.CanonicalKeyConstraint):
		return apperr.Conflict("Manga with this canonical key already exists").WithCause(err)
	case dberr.IsUniqueViolation(err, schema.CatalogManga.SlugConstraint):
		return apperr.Conflict("Manga with this slug already exists").WithCause(err)
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFound("Category").WithCause(err)
	}
	return dberr.WrapEntity(err, "Manga", action)
}
