// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"log/slog"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// MangaResolver maps a manga slug to its identity.
type MangaResolver interface {
	Resolve(context context.Context, slug string) (*manga.Ref, error)
}

// Service implements the rating rules.
type Service struct {
	repo   Repository
	mangas MangaResolver
	logger *slog.Logger
}

// NewService constructs a rating [Service].
func NewService(repo Repository, mangas MangaResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, mangas: mangas, logger: logger}
}

/*
SubmitRating records the actor's score for a manga.

Description: Scores outside [1, 5] are rejected, never clamped. A second
submission for the same manga updates the existing row.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - mangaSlug: string
  - score: int

Returns:
  - *Rating: Stored rating
  - bool: true when a new rating was created
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) SubmitRating(context context.Context, actor sec.Actor, mangaSlug string, score int) (*Rating, bool, error) {
	if err := (&validate.Validator{}).Range(FieldScore, score, MinScore, MaxScore).Err(); err != nil {
		return nil, false, err
	}

	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, false, err
	}

	rating := &Rating{ID: uuid.New(), UserID: actor.UserID, MangaID: ref.ID, Score: score}
	created, err := service.repo.Upsert(context, rating)
	if err != nil {
		return nil, false, err
	}

	service.logger.Info("rating_submitted",
		slog.String("manga_id", ref.ID),
		slog.String("user_id", actor.UserID),
		slog.Int("score", score),
		slog.Bool("created", created),
	)
	return rating, created, nil
}

// MyRating returns the actor's rating for a manga.
func (service *Service) MyRating(context context.Context, actor sec.Actor, mangaSlug string) (*Rating, error) {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, err
	}
	return service.repo.Find(context, actor.UserID, ref.ID)
}

// DeleteRating withdraws the actor's rating. Only the owner's row is
// addressable, so no other user's rating can be removed.
func (service *Service) DeleteRating(context context.Context, actor sec.Actor, mangaSlug string) error {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, actor.UserID, ref.ID); err != nil {
		return err
	}

	service.logger.Info("rating_deleted", slog.String("manga_id", ref.ID), slog.String("user_id", actor.UserID))
	return nil
}

// Summary returns the average score and rating count of a manga.
func (service *Service) Summary(context context.Context, mangaSlug string) (*Summary, error) {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, err
	}
	return service.repo.Summary(context, ref.ID)
}
