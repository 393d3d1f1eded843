// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository defines persistence for comments.
type Repository interface {
	// Create inserts a new comment and fills its timestamps.
	Create(context context.Context, comment *Comment) error

	// ListByParent returns one page of comments of a parent, newest first,
	// and the total number of comments on that parent.
	ListByParent(context context.Context, parent Parent, limit, offset int) ([]*Comment, int, error)

	// Find returns a comment with its author's username.
	Find(context context.Context, id string) (*Comment, error)

	// UpdateContent replaces the text of a comment.
	UpdateContent(context context.Context, id, content string) error

	// Delete removes a comment.
	Delete(context context.Context, id string) error
}
