// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import "context"

// Repository defines persistence for notifications. Every read and write
// except InsertBatch is scoped to the owning user.
type Repository interface {
	// InsertBatch creates one unread notification per user for the chapter,
	// skipping users who already have one. It returns the number created.
	InsertBatch(context context.Context, chapterID string, userIDs []string) (int, error)

	List(context context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int, error)
	UnreadCount(context context.Context, userID string) (int, error)
	MarkRead(context context.Context, userID, id string) error
	MarkAllRead(context context.Context, userID string) (int, error)
	Delete(context context.Context, userID, id string) error
}
