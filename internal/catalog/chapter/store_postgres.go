// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed chapter store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectChapters projects a chapter joined with its manga identity, followed
// by any extra columns.
func selectChapters(extra string) string {
	return fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
	       m.%s, m.%s, m.%s, m.%s%s
	FROM %s c
	JOIN %s m ON m.%s = c.%s`,
		schema.CatalogChapter.ID, schema.CatalogChapter.MangaID, schema.CatalogChapter.Title,
		schema.CatalogChapter.Volume, schema.CatalogChapter.Number, schema.CatalogChapter.Slug,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
		schema.CatalogManga.ID, schema.CatalogManga.Name, schema.CatalogManga.Slug, schema.CatalogManga.CanonicalKey,
		extra,
		schema.CatalogChapter.Table,
		schema.CatalogManga.Table, schema.CatalogManga.ID, schema.CatalogChapter.MangaID,
	)
}

var chapterSelect = selectChapters("")

func scanChapter(row pgx.Row, extra ...any) (*Chapter, error) {
	chapter := &Chapter{Manga: &manga.Ref{}}
	dest := []any{
		&chapter.ID, &chapter.MangaID, &chapter.Title, &chapter.Volume, &chapter.Number, &chapter.Slug,
		&chapter.CreatedAt, &chapter.UpdatedAt,
		&chapter.Manga.ID, &chapter.Manga.Name, &chapter.Manga.Slug, &chapter.Manga.CanonicalKey,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return chapter, nil
}

// # Chapters

// ListByManga returns chapters of one manga with the total count.
func (repository *PostgresRepository) ListByManga(context context.Context, mangaID string, limit, offset int) ([]*Chapter, int, error) {
	table := schema.CatalogChapter
	query := fmt.Sprintf(`%s
	WHERE c.%s = $1
	ORDER BY c.%s DESC, c.%s DESC
	LIMIT $2 OFFSET $3`,
		selectChapters(", COUNT(*) OVER()"), table.MangaID, table.Volume, table.Number)

	rows, err := repository.pool.Query(context, query, mangaID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_chapters")
	}
	defer rows.Close()

	chapters := make([]*Chapter, 0)
	total := 0
	for rows.Next() {
		chapter, err := scanChapter(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, chapter)
	}

	return chapters, total, dberr.Wrap(rows.Err(), "list_chapters")
}

// Latest returns the newest chapters across the catalogue.
func (repository *PostgresRepository) Latest(context context.Context, limit int) ([]*Chapter, error) {
	query := fmt.Sprintf(`%s
	ORDER BY c.%s DESC, c.%s DESC
	LIMIT $1`, chapterSelect, schema.CatalogChapter.CreatedAt, schema.CatalogChapter.ID)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "latest_chapters")
	}
	defer rows.Close()

	chapters := make([]*Chapter, 0)
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_chapter")
		}
		chapters = append(chapters, chapter)
	}
	return chapters, dberr.Wrap(rows.Err(), "latest_chapters")
}

// FindBySlug returns one chapter.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Chapter, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, chapterSelect, schema.CatalogChapter.Slug)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.WrapEntity(err, "Chapter", "find_chapter_by_slug")
	}
	return chapter, nil
}

// FindByID returns one chapter.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, chapterSelect, schema.CatalogChapter.ID)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapEntity(err, "Chapter", "find_chapter_by_id")
	}
	return chapter, nil
}

// Create inserts a chapter row.
func (repository *PostgresRepository) Create(context context.Context, chapter *Chapter) error {
	table := schema.CatalogChapter
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		table.Table, table.ID, table.MangaID, table.Title, table.Volume, table.Number, table.Slug,
		table.CreatedAt, table.UpdatedAt)

	err := repository.pool.QueryRow(context, query,
		chapter.ID, chapter.MangaID, chapter.Title, chapter.Volume, chapter.Number, chapter.Slug,
	).Scan(&chapter.CreatedAt, &chapter.UpdatedAt)

	return wrapChapterErr(err, "create_chapter")
}

// Update rewrites the mutable columns and the recomputed slug.
func (repository *PostgresRepository) Update(context context.Context, chapter *Chapter) error {
	table := schema.CatalogChapter
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table, table.Title, table.Volume, table.Number, table.Slug, table.UpdatedAt,
		table.ID, table.UpdatedAt)

	err := repository.pool.QueryRow(context, query,
		chapter.ID, chapter.Title, chapter.Volume, chapter.Number, chapter.Slug,
	).Scan(&chapter.UpdatedAt)

	return wrapChapterErr(err, "update_chapter")
}

// Delete removes a chapter.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogChapter.Table, schema.CatalogChapter.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.WrapEntity(err, "Chapter", "delete_chapter")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}
	return nil
}

func wrapChapterErr(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.CatalogChapter.NumberConstraint):
		return apperr.Conflict("Chapter with this volume and number already exists").WithCause(err)
	case dberr.IsUniqueViolation(err, schema.CatalogChapter.SlugConstraint):
		return apperr.Conflict("Chapter with this slug already exists").WithCause(err)
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFound("Manga").WithCause(err)
	}
	return dberr.WrapEntity(err, "Chapter", action)
}

// # Pages

var pageColumns = fmt.Sprintf("%s, %s, %s, %s, %s",
	schema.CatalogPage.ID, schema.CatalogPage.ChapterID, schema.CatalogPage.Image,
	schema.CatalogPage.PageNumber, schema.CatalogPage.CreatedAt)

// ListPages returns the pages of a chapter ordered by number.
func (repository *PostgresRepository) ListPages(context context.Context, chapterID string) ([]*Page, error) {
	table := schema.CatalogPage
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		pageColumns, table.Table, table.ChapterID, table.PageNumber)

	rows, err := repository.pool.Query(context, query, chapterID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pages")
	}

	pages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Page, error) {
		page := &Page{}
		err := row.Scan(&page.ID, &page.ChapterID, &page.Image, &page.PageNumber, &page.CreatedAt)
		return page, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_page")
	}
	return pages, nil
}

/*
AddPage inserts a page row.

Description: When PageNumber is zero the next number is computed inside the
INSERT as MAX(pagenumber)+1 for the chapter. Two concurrent inserts may still
compute the same value; the unique constraint rejects the loser, which the
service retries.
*/
func (repository *PostgresRepository) AddPage(context context.Context, page *Page) error {
	table := schema.CatalogPage
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4::int, 0), (
			SELECT COALESCE(MAX(%s), 0) + 1 FROM %s WHERE %s = $2
		)))
		RETURNING %s, %s`,
		table.Table, table.ID, table.ChapterID, table.Image, table.PageNumber,
		table.PageNumber, table.Table, table.ChapterID,
		table.PageNumber, table.CreatedAt)

	err := repository.pool.QueryRow(context, query, page.ID, page.ChapterID, page.Image, page.PageNumber).
		Scan(&page.PageNumber, &page.CreatedAt)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, table.PageNumberConstraint):
		return apperr.Conflict("Page number already exists in this chapter").WithCause(err)
	case dberr.IsForeignKeyViolation(err, ""):
		return apperr.NotFound("Chapter").WithCause(err)
	}
	return dberr.WrapEntity(err, "Page", "add_page")
}

// FindPage returns one page.
func (repository *PostgresRepository) FindPage(context context.Context, id string) (*Page, error) {
	table := schema.CatalogPage
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, pageColumns, table.Table, table.ID)

	page := &Page{}
	err := repository.pool.QueryRow(context, query, id).
		Scan(&page.ID, &page.ChapterID, &page.Image, &page.PageNumber, &page.CreatedAt)
	if err != nil {
		return nil, dberr.WrapEntity(err, "Page", "find_page")
	}
	return page, nil
}

// DeletePage removes one page.
func (repository *PostgresRepository) DeletePage(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogPage.Table, schema.CatalogPage.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.WrapEntity(err, "Page", "delete_page")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Page")
	}
	return nil
}
