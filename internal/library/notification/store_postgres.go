// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/internal/platform/postgres"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed notification store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func selectNotifications(extra string) string {
	n, c, m := schema.LibraryNotification, schema.CatalogChapter, schema.CatalogManga
	return fmt.Sprintf(`
	SELECT n.%s, n.%s, n.%s, n.%s,
	       c.%s, c.%s, c.%s, c.%s, c.%s,
	       m.%s, m.%s, m.%s%s
	FROM %s n
	JOIN %s c ON c.%s = n.%s
	JOIN %s m ON m.%s = c.%s`,
		n.ID, n.UserID, n.IsRead, n.CreatedAt,
		c.ID, c.Title, c.Volume, c.Number, c.Slug,
		m.ID, m.Name, m.Slug,
		extra,
		n.Table,
		c.Table, c.ID, n.ChapterID,
		m.Table, m.ID, c.MangaID,
	)
}

func scanNotification(row pgx.Row, extra ...any) (*Notification, error) {
	item := &Notification{Chapter: &ChapterRef{Manga: &manga.Ref{}}}
	dest := []any{
		&item.ID, &item.UserID, &item.IsRead, &item.CreatedAt,
		&item.Chapter.ID, &item.Chapter.Title, &item.Chapter.Volume, &item.Chapter.Number, &item.Chapter.Slug,
		&item.Chapter.Manga.ID, &item.Chapter.Manga.Name, &item.Chapter.Manga.Slug,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return item, nil
}

/*
InsertBatch queues one INSERT per subscriber in a single transaction.

Description: The (user, chapter) unique constraint absorbs duplicates with
ON CONFLICT DO NOTHING, so replaying a chapter only fills the gaps. The
created count is the sum of affected rows.

Returns:
  - int: Number of notifications created
  - error: Database failures; the batch is rolled back as a whole
*/
func (repository *PostgresRepository) InsertBatch(context context.Context, chapterID string, userIDs []string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	table := schema.LibraryNotification
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING`,
		table.Table, table.ID, table.UserID, table.ChapterID,
		table.UserChapterConstraint,
	)

	created := 0
	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, userID := range userIDs {
			batch.Queue(query, uuid.New(), userID, chapterID)
		}

		results := transaction.SendBatch(context, batch)
		for range userIDs {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return err
			}
			created += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, dberr.WrapEntity(err, "Notification", "insert_notifications")
	}
	return created, nil
}

// List returns a page of the user's notifications, newest first.
func (repository *PostgresRepository) List(context context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	table := schema.LibraryNotification
	query := fmt.Sprintf(`%s
		WHERE n.%s = $1 AND (NOT $2 OR n.%s = FALSE)
		ORDER BY n.%s DESC, n.%s DESC
		LIMIT $3 OFFSET $4`,
		selectNotifications(", COUNT(*) OVER()"), table.UserID, table.IsRead, table.CreatedAt, table.ID,
	)

	rows, err := repository.pool.Query(context, query, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notifications")
	}
	defer rows.Close()

	var (
		items = []*Notification{}
		total int
	)
	for rows.Next() {
		item, err := scanNotification(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_notification")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_notifications")
	}
	return items, total, nil
}

// UnreadCount counts the user's unread notifications.
func (repository *PostgresRepository) UnreadCount(context context.Context, userID string) (int, error) {
	table := schema.LibraryNotification
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = FALSE`, table.Table, table.UserID, table.IsRead)

	var count int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_unread_notifications")
	}
	return count, nil
}

// MarkRead flags one notification as read. Marking twice is not an error.
func (repository *PostgresRepository) MarkRead(context context.Context, userID, id string) error {
	table := schema.LibraryNotification
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = $2`, table.Table, table.IsRead, table.ID, table.UserID)

	result, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "mark_notification_read")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Notification")
	}
	return nil
}

// MarkAllRead flags every unread notification of the user and returns how
// many changed.
func (repository *PostgresRepository) MarkAllRead(context context.Context, userID string) (int, error) {
	table := schema.LibraryNotification
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE`, table.Table, table.IsRead, table.UserID, table.IsRead)

	result, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "mark_all_notifications_read")
	}
	return int(result.RowsAffected()), nil
}

// Delete removes one of the user's notifications.
func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	table := schema.LibraryNotification
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.ID, table.UserID)

	result, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_notification")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Notification")
	}
	return nil
}
