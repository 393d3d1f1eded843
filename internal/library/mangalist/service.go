// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangalist

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// MangaResolver maps a manga slug to its identity.
type MangaResolver interface {
	Resolve(context context.Context, slug string) (*manga.Ref, error)
}

// Service implements reading list rules.
type Service struct {
	repo   Repository
	mangas MangaResolver
	logger *slog.Logger
}

// NewService constructs a reading list [Service].
func NewService(repo Repository, mangas MangaResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, mangas: mangas, logger: logger}
}

/*
SetStatus places a manga on the actor's list, or moves it to another status.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - mangaSlug: string
  - status: Status

Returns:
  - *Entry: The stored entry
  - bool: true when the entry did not exist before
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) SetStatus(context context.Context, actor sec.Actor, mangaSlug string, status Status) (*Entry, bool, error) {
	if err := (&validate.Validator{}).OneOf(FieldStatus, string(status), Statuses...).Err(); err != nil {
		return nil, false, err
	}

	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, false, err
	}

	entry := &Entry{
		ID:      uuid.New(),
		UserID:  actor.UserID,
		MangaID: ref.ID,
		Manga:   ref,
		Status:  status,
	}
	created, err := service.repo.Upsert(context, entry)
	if err != nil {
		return nil, false, err
	}

	service.logger.Info("list_status_set",
		slog.String("user_id", actor.UserID),
		slog.String("manga_id", ref.ID),
		slog.String("status", string(status)),
		slog.Bool("created", created),
	)
	return entry, created, nil
}

// GetMine returns the actor's entry for one manga.
func (service *Service) GetMine(context context.Context, actor sec.Actor, mangaSlug string) (*Entry, error) {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, err
	}
	return service.repo.Find(context, actor.UserID, ref.ID)
}

// ListMine pages through the actor's list. An empty status lists every shelf.
func (service *Service) ListMine(context context.Context, actor sec.Actor, status Status, limit, offset int) ([]*Entry, int, error) {
	var filter *Status
	if status != "" {
		if err := (&validate.Validator{}).OneOf(FieldStatus, string(status), Statuses...).Err(); err != nil {
			return nil, 0, err
		}
		filter = &status
	}
	return service.repo.ListByUser(context, actor.UserID, filter, limit, offset)
}

// Remove takes a manga off the actor's list, which also ends the
// subscription to its chapters.
func (service *Service) Remove(context context.Context, actor sec.Actor, mangaSlug string) error {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return err
	}
	if err := service.repo.Delete(context, actor.UserID, ref.ID); err != nil {
		return err
	}

	service.logger.Info("list_entry_removed",
		slog.String("user_id", actor.UserID),
		slog.String("manga_id", ref.ID),
	)
	return nil
}

// Subscribers returns every user who had the manga on their list at asOf,
// whatever the status.
func (service *Service) Subscribers(context context.Context, mangaID string, asOf time.Time) ([]string, error) {
	return service.repo.Subscribers(context, mangaID, asOf)
}
