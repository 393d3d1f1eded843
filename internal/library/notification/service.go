// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// SubscriberSource lists the users who were following a manga at a point
// in time.
type SubscriberSource interface {
	Subscribers(context context.Context, mangaID string, asOf time.Time) ([]string, error)
}

// ChapterFinder loads a chapter by id for replays.
type ChapterFinder interface {
	FindByID(context context.Context, id string) (*chapter.Chapter, error)
}

// Service implements notification delivery and the inbox operations.
type Service struct {
	repo        Repository
	subscribers SubscriberSource
	chapters    ChapterFinder
	logger      *slog.Logger
}

// NewService constructs a notification [Service].
func NewService(repo Repository, subscribers SubscriberSource, chapters ChapterFinder, logger *slog.Logger) *Service {
	return &Service{repo: repo, subscribers: subscribers, chapters: chapters, logger: logger}
}

// Register subscribes the fan-out to newly created chapters.
func (service *Service) Register(bus *events.Bus) {
	events.Subscribe(bus, func(context context.Context, event chapter.Created) error {
		_, err := service.FanOut(context, event)
		return err
	})
}

/*
FanOut notifies every subscriber of the chapter's manga.

Description: Only users whose list entry existed when the chapter was
created are notified; notifications are never created retroactively for
someone who subscribes later. Users who were already notified of this
chapter are skipped, so calling FanOut again for the same chapter is
harmless. An event without a timestamp is treated as created now.

Parameters:
  - context: context.Context
  - event: chapter.Created

Returns:
  - int: Number of notifications created
  - error: Persistence failures
*/
func (service *Service) FanOut(context context.Context, event chapter.Created) (int, error) {
	asOf := event.CreatedAt
	if asOf.IsZero() {
		asOf = time.Now()
	}

	userIDs, err := service.subscribers.Subscribers(context, event.MangaID, asOf)
	if err != nil {
		return 0, err
	}

	created, err := service.repo.InsertBatch(context, event.ChapterID, userIDs)
	if err != nil {
		return 0, err
	}

	service.logger.Info("notifications_fanned_out",
		slog.String("chapter_id", event.ChapterID),
		slog.String("manga_id", event.MangaID),
		slog.Int("subscribers", len(userIDs)),
		slog.Int("created", created),
	)
	return created, nil
}

// Replay retries the fan-out of an existing chapter after a failed run. The
// subscriber set is the one of the chapter's creation time, so users who
// listed the manga afterwards get nothing.
func (service *Service) Replay(context context.Context, chapterID string) (int, error) {
	found, err := service.chapters.FindByID(context, chapterID)
	if err != nil {
		return 0, err
	}
	return service.FanOut(context, chapter.Created{
		ChapterID: found.ID,
		MangaID:   found.MangaID,
		Slug:      found.Slug,
		CreatedAt: found.CreatedAt,
	})
}

// List returns the actor's notifications, newest first.
func (service *Service) List(context context.Context, actor sec.Actor, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	return service.repo.List(context, actor.UserID, unreadOnly, limit, offset)
}

// UnreadCount returns the number of unread notifications of the actor.
func (service *Service) UnreadCount(context context.Context, actor sec.Actor) (int, error) {
	return service.repo.UnreadCount(context, actor.UserID)
}

// MarkRead flags one of the actor's notifications as read.
func (service *Service) MarkRead(context context.Context, actor sec.Actor, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Notification")
	}
	return service.repo.MarkRead(context, actor.UserID, id)
}

// MarkAllRead flags all of the actor's notifications as read.
func (service *Service) MarkAllRead(context context.Context, actor sec.Actor) (int, error) {
	return service.repo.MarkAllRead(context, actor.UserID)
}

// Delete removes one of the actor's notifications. Notifications of other
// users are reported as missing.
func (service *Service) Delete(context context.Context, actor sec.Actor, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Notification")
	}
	if err := service.repo.Delete(context, actor.UserID, id); err != nil {
		return err
	}

	service.logger.Info("notification_deleted",
		slog.String("user_id", actor.UserID),
		slog.String("notification_id", id),
	)
	return nil
}
