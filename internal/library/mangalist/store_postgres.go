// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangalist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed reading list store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func selectEntries(extra string) string {
	return fmt.Sprintf(`
	SELECT l.%s, l.%s, l.%s, l.%s, l.%s, l.%s, m.%s, m.%s, m.%s%s
	FROM %s l
	JOIN %s m ON m.%s = l.%s`,
		schema.LibraryMangaList.ID, schema.LibraryMangaList.UserID, schema.LibraryMangaList.MangaID,
		schema.LibraryMangaList.Status, schema.LibraryMangaList.CreatedAt, schema.LibraryMangaList.UpdatedAt,
		schema.CatalogManga.ID, schema.CatalogManga.Name, schema.CatalogManga.Slug,
		extra,
		schema.LibraryMangaList.Table,
		schema.CatalogManga.Table, schema.CatalogManga.ID, schema.LibraryMangaList.MangaID,
	)
}

var entrySelect = selectEntries("")

func scanEntry(row pgx.Row, extra ...any) (*Entry, error) {
	entry := &Entry{Manga: &manga.Ref{}}
	dest := []any{
		&entry.ID, &entry.UserID, &entry.MangaID, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.Manga.ID, &entry.Manga.Name, &entry.Manga.Slug,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return entry, nil
}

// Upsert relies on the (user, manga) unique constraint; xmax = 0 marks an insert.
func (repository *PostgresRepository) Upsert(context context.Context, entry *Entry) (bool, error) {
	table := schema.LibraryMangaList
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT %s
		DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s, (xmax = 0)`,
		table.Table, table.ID, table.UserID, table.MangaID, table.Status,
		table.UserMangaConstraint,
		table.Status, table.Status, table.UpdatedAt,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	var inserted bool
	err := repository.pool.QueryRow(context, query, entry.ID, entry.UserID, entry.MangaID, entry.Status).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt, &inserted)
	if err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return false, apperr.NotFound("Manga").WithCause(err)
		}
		return false, dberr.WrapEntity(err, "List entry", "upsert_list_entry")
	}
	return inserted, nil
}

// Find returns one entry.
func (repository *PostgresRepository) Find(context context.Context, userID, mangaID string) (*Entry, error) {
	query := fmt.Sprintf(`%s WHERE l.%s = $1 AND l.%s = $2`,
		entrySelect, schema.LibraryMangaList.UserID, schema.LibraryMangaList.MangaID)

	entry, err := scanEntry(repository.pool.QueryRow(context, query, userID, mangaID))
	if err != nil {
		return nil, dberr.WrapEntity(err, "List entry", "find_list_entry")
	}
	return entry, nil
}

// ListByUser pages through a user's list. A nil status matches every status.
func (repository *PostgresRepository) ListByUser(context context.Context, userID string, status *Status, limit, offset int) ([]*Entry, int, error) {
	table := schema.LibraryMangaList
	query := fmt.Sprintf(`%s
		WHERE l.%s = $1 AND ($2::text IS NULL OR l.%s = $2::text)
		ORDER BY l.%s DESC, l.%s DESC
		LIMIT $3 OFFSET $4`,
		selectEntries(", COUNT(*) OVER()"), table.UserID, table.Status, table.UpdatedAt, table.ID,
	)

	statusArg := pointer.NilIfZero(string(pointer.Val(status)))

	rows, err := repository.pool.Query(context, query, userID, statusArg, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_entries")
	}
	defer rows.Close()

	var (
		entries = []*Entry{}
		total   int
	)
	for rows.Next() {
		entry, err := scanEntry(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_list_entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_entries")
	}
	return entries, total, nil
}

// Delete removes one entry.
func (repository *PostgresRepository) Delete(context context.Context, userID, mangaID string) error {
	table := schema.LibraryMangaList
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.UserID, table.MangaID)

	result, err := repository.pool.Exec(context, query, userID, mangaID)
	if err != nil {
		return dberr.WrapEntity(err, "List entry", "delete_list_entry")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("List entry")
	}
	return nil
}

// Subscribers returns the users who were tracking a manga at asOf.
func (repository *PostgresRepository) Subscribers(context context.Context, mangaID string, asOf time.Time) ([]string, error) {
	table := schema.LibraryMangaList
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s = $1 AND %s <= $2`,
		table.UserID, table.Table, table.MangaID, table.CreatedAt)

	rows, err := repository.pool.Query(context, query, mangaID, asOf)
	if err != nil {
		return nil, dberr.Wrap(err, "list_subscribers")
	}

	userIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_subscriber")
	}
	return userIDs, nil
}
