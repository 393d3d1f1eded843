// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed rating store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Upsert writes the score in one statement.

Description: The insert and the update race on the (user, manga) unique
constraint inside Postgres, so concurrent submissions never produce two rows
and never lose the later score. xmax is zero only for freshly inserted rows.
*/
func (repository *PostgresRepository) Upsert(context context.Context, rating *Rating) (bool, error) {
	table := schema.SocialRating
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT %s
		DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s, %s, (xmax = 0)`,
		table.Table, table.ID, table.UserID, table.MangaID, table.Score,
		table.UserMangaConstraint,
		table.Score, table.Score, table.UpdatedAt,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	var inserted bool
	err := repository.pool.QueryRow(context, query, rating.ID, rating.UserID, rating.MangaID, rating.Score).
		Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt, &inserted)
	if err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return false, apperr.NotFound("Manga").WithCause(err)
		}
		return false, dberr.WrapEntity(err, "Rating", "upsert_rating")
	}
	return inserted, nil
}

// Find returns one rating.
func (repository *PostgresRepository) Find(context context.Context, userID, mangaID string) (*Rating, error) {
	table := schema.SocialRating
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		strings.Join(table.Columns(), ", "), table.Table, table.UserID, table.MangaID)

	rating := &Rating{}
	err := repository.pool.QueryRow(context, query, userID, mangaID).Scan(
		&rating.ID, &rating.UserID, &rating.MangaID, &rating.Score, &rating.CreatedAt, &rating.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapEntity(err, "Rating", "find_rating")
	}
	return rating, nil
}

// Delete removes one rating.
func (repository *PostgresRepository) Delete(context context.Context, userID, mangaID string) error {
	table := schema.SocialRating
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.UserID, table.MangaID)

	result, err := repository.pool.Exec(context, query, userID, mangaID)
	if err != nil {
		return dberr.WrapEntity(err, "Rating", "delete_rating")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Rating")
	}
	return nil
}

// Summary returns AVG and COUNT; AVG over no rows is NULL.
func (repository *PostgresRepository) Summary(context context.Context, mangaID string) (*Summary, error) {
	table := schema.SocialRating
	query := fmt.Sprintf(`SELECT AVG(%s)::float8, COUNT(*) FROM %s WHERE %s = $1`,
		table.Score, table.Table, table.MangaID)

	summary := &Summary{}
	if err := repository.pool.QueryRow(context, query, mangaID).Scan(&summary.Average, &summary.Count); err != nil {
		return nil, dberr.Wrap(err, "rating_summary")
	}
	return summary, nil
}
