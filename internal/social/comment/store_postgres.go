// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectComments projects a comment joined with its author's username,
// followed by any extra columns.
func selectComments(extra string) string {
	return fmt.Sprintf(`
	SELECT c.%s, c.%s, a.%s, c.%s, c.%s, c.%s, c.%s, c.%s%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s`,
		schema.SocialComment.ID, schema.SocialComment.UserID, schema.UserAccount.Username,
		schema.SocialComment.MangaID, schema.SocialComment.ChapterID, schema.SocialComment.Content,
		schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		extra,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.UserID,
	)
}

var commentSelect = selectComments("")

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	var (
		comment   = &Comment{}
		mangaID   *string
		chapterID *string
	)
	dest := []any{
		&comment.ID, &comment.UserID, &comment.Username, &mangaID, &chapterID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	switch {
	case mangaID != nil:
		comment.Parent = MangaParent(*mangaID)
	case chapterID != nil:
		comment.Parent = ChapterParent(*chapterID)
	}
	return comment, nil
}

// parentColumn returns the foreign key column that stores the parent.
func parentColumn(parent Parent) string {
	if parent.Kind() == KindChapter {
		return schema.SocialComment.ChapterID
	}
	return schema.SocialComment.MangaID
}

// Create inserts the comment. The foreign key that is not the parent stays NULL.
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	table := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		table.Table, table.ID, table.UserID, parentColumn(comment.Parent), table.Content,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, comment.ID, comment.UserID, comment.Parent.ID(), comment.Content).
		Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if dberr.IsForeignKeyViolation(err, "") {
			return apperr.NotFound(comment.Parent.resource()).WithCause(err)
		}
		return dberr.WrapEntity(err, "Comment", "create_comment")
	}
	return nil
}

// ListByParent pages through a parent's comments using COUNT(*) OVER() for the total.
func (repository *PostgresRepository) ListByParent(context context.Context, parent Parent, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3`,
		selectComments(", COUNT(*) OVER()"), parentColumn(parent), schema.SocialComment.CreatedAt, schema.SocialComment.ID,
	)

	rows, err := repository.pool.Query(context, query, parent.ID(), limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	var (
		comments = []*Comment{}
		total    int
	)
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	return comments, total, nil
}

// Find returns one comment.
func (repository *PostgresRepository) Find(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, commentSelect, schema.SocialComment.ID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapEntity(err, "Comment", "find_comment")
	}
	return comment, nil
}

// UpdateContent replaces the text and bumps updatedat.
func (repository *PostgresRepository) UpdateContent(context context.Context, id, content string) error {
	table := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		table.Table, table.Content, table.UpdatedAt, table.ID)

	result, err := repository.pool.Exec(context, query, id, content)
	if err != nil {
		return dberr.WrapEntity(err, "Comment", "update_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

// Delete removes one comment.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.SocialComment
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.WrapEntity(err, "Comment", "delete_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
