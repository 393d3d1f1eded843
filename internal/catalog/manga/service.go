// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/imaging"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/slice"
	"github.com/taibuivan/mangashelf/pkg/slug"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// # Collaborators

// BlobStore persists uploaded artwork and turns references into public URLs.
type BlobStore interface {
	Save(context context.Context, dir, filename string, r io.Reader) (string, error)
	Open(context context.Context, ref string) (io.ReadCloser, error)
	Delete(context context.Context, ref string) error
	URL(ref string) string
}

// # Service Layer

// Service orchestrates business rules for the manga aggregate.
type Service struct {
	repo   Repository
	blobs  BlobStore
	logger *slog.Logger

	now  func() time.Time
	intn func(n int) int
}

// Option customises a [Service].
type Option func(*Service)

// WithClock overrides the time source used by the yearly ranking.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// WithRandom overrides the source used by [Service.Spotlight]. intn must
// return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(service *Service) { service.intn = intn }
}

// NewService constructs a manga [Service].
func NewService(repo Repository, blobs BlobStore, logger *slog.Logger, options ...Option) *Service {
	service := &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
		intn:   rand.IntN,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Discovery

/*
ListManga returns a filtered page of manga.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Manga: Summaries with artwork URLs
  - int: Total count
  - error: VALIDATION_ERROR on unknown ordering or out-of-range min_rating
*/
func (service *Service) ListManga(context context.Context, filter Filter, limit, offset int) ([]*Manga, int, error) {
	validator := &validate.Validator{}
	if filter.Ordering != "" {
		validator.OneOf(FieldOrdering, filter.Ordering, Orderings...)
	}
	if filter.MinRating != nil {
		validator.Range(FieldMinRating, *filter.MinRating, 0, 5)
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	items, total, err := service.repo.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	service.fillURLs(items...)
	return items, total, nil
}

// Rankings returns one of the capped top-lists. Equal scores are ordered by
// id, which is stable but carries no meaning.
func (service *Service) Rankings(context context.Context, ranking Ranking) ([]*Manga, error) {
	items, err := service.repo.Ranking(context, ranking, service.now())
	if err != nil {
		return nil, err
	}

	service.fillURLs(items...)
	return items, nil
}

/*
Spotlight picks two manga for the landing page.

Description: With two or more manga in the catalogue, two distinct rows are
drawn uniformly at random. A single manga is returned twice so callers always
receive a pair.

Returns:
  - [2]*Manga: The selected pair
  - error: NOTHING_TO_SELECT when the catalogue is empty
*/
func (service *Service) Spotlight(context context.Context) ([2]*Manga, error) {
	var pair [2]*Manga

	total, err := service.repo.Count(context)
	if err != nil {
		return pair, err
	}

	switch total {
	case 0:
		return pair, apperr.NothingToSelect("Manga")
	case 1:
		only, err := service.repo.FindByOffset(context, 0)
		if err != nil {
			return pair, err
		}
		service.fillURLs(only)
		return [2]*Manga{only, only}, nil
	}

	first := service.intn(total)
	second := service.intn(total - 1)
	if second >= first {
		second++
	}

	for index, offset := range []int{first, second} {
		manga, err := service.repo.FindByOffset(context, offset)
		if err != nil {
			return pair, err
		}
		service.fillURLs(manga)
		pair[index] = manga
	}

	return pair, nil
}

// # Detail

/*
GetManga returns the fully hydrated manga.

Description: When the manga has an avatar but no thumbnail, the thumbnail is
derived before returning. A failed derivation is logged and the manga is
returned without one.
*/
func (service *Service) GetManga(context context.Context, slug string) (*Manga, error) {
	manga, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	if manga.Avatar != "" && manga.Thumbnail == "" {
		if thumbnail, err := service.RegenerateThumbnail(context, manga.ID, manga.Avatar); err == nil {
			manga.Thumbnail = thumbnail
		}
	}

	service.fillURLs(manga)
	return manga, nil
}

// Resolve maps a slug to the identity used by chapters, ratings, comments
// and reading lists.
func (service *Service) Resolve(context context.Context, slug string) (*Ref, error) {
	return service.repo.FindRef(context, slug)
}

// # Write Operations

/*
CreateManga validates and persists a new manga.

Description: The slug is derived from the canonical key exactly once. A key
or slug that already exists is reported as a conflict; it is never altered to
make it unique.

Parameters:
  - context: context.Context
  - actor: sec.Actor (must be able to manage content)
  - input: CreateInput

Returns:
  - *Manga: The stored manga, re-read with its associations
  - error: FORBIDDEN, VALIDATION_ERROR, CONFLICT or NOT_FOUND for bad references
*/
func (service *Service) CreateManga(context context.Context, actor sec.Actor, input CreateInput) (*Manga, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can create manga")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.OriginalName = strings.TrimSpace(input.OriginalName)
	input.CanonicalKey = strings.TrimSpace(input.CanonicalKey)
	input.Review = strings.TrimSpace(input.Review)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)
	validator.MaxLen(FieldOriginalName, input.OriginalName, 100)
	validator.Required(FieldCanonicalKey, input.CanonicalKey).
		MaxLen(FieldCanonicalKey, input.CanonicalKey, 255).
		CanonicalKey(FieldCanonicalKey, input.CanonicalKey)
	validator.Positive(FieldCategoryID, input.CategoryID)

	derived := slug.From(input.CanonicalKey)
	validator.Custom(FieldCanonicalKey, input.CanonicalKey != "" && derived == "", "Must contain at least one letter or digit")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	manga := &Manga{
		ID:           uuid.New(),
		Name:         input.Name,
		OriginalName: input.OriginalName,
		CanonicalKey: input.CanonicalKey,
		Slug:         derived,
		Decency:      input.Decency,
		Review:       input.Review,
		CategoryID:   input.CategoryID,
	}

	if err := service.repo.Create(context, manga, input.Associations); err != nil {
		return nil, err
	}

	service.logger.Info("manga_created",
		slog.String("manga_id", manga.ID),
		slog.String("slug", manga.Slug),
		slog.String("actor_id", actor.UserID),
	)

	return service.GetManga(context, manga.Slug)
}

/*
UpdateManga applies a partial update.

Description: The canonical key and slug are immutable. A patch that repeats
the stored canonical key is accepted; any other value is rejected.
*/
func (service *Service) UpdateManga(context context.Context, actor sec.Actor, slug string, patch Patch) (*Manga, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can update manga")
	}

	ref, err := service.repo.FindRef(context, slug)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Name != nil {
		*patch.Name = strings.TrimSpace(*patch.Name)
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 100)
	}
	if patch.OriginalName != nil {
		*patch.OriginalName = strings.TrimSpace(*patch.OriginalName)
		validator.MaxLen(FieldOriginalName, *patch.OriginalName, 100)
	}
	if patch.CanonicalKey != nil {
		validator.Custom(FieldCanonicalKey, strings.TrimSpace(*patch.CanonicalKey) != ref.CanonicalKey, "Canonical key cannot be changed")
	}
	if patch.CategoryID != nil {
		validator.Positive(FieldCategoryID, *patch.CategoryID)
	}
	if patch.Review != nil {
		*patch.Review = strings.TrimSpace(*patch.Review)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, ref.ID, patch); err != nil {
		return nil, err
	}

	service.logger.Info("manga_updated", slog.String("manga_id", ref.ID), slog.String("actor_id", actor.UserID))
	return service.GetManga(context, ref.Slug)
}

// DeleteManga removes the manga and, best effort, its artwork.
func (service *Service) DeleteManga(context context.Context, actor sec.Actor, slug string) error {
	if !actor.CanManageContent() {
		return apperr.Forbidden("Only editors can delete manga")
	}

	manga, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, manga.ID); err != nil {
		return err
	}

	service.discard(context, manga.Avatar, manga.Thumbnail)
	service.logger.Info("manga_deleted", slog.String("manga_id", manga.ID), slog.String("actor_id", actor.UserID))
	return nil
}

// # Artwork

/*
SetAvatar stores a new avatar and derives its thumbnail.

Description: The avatar reference is committed first. Thumbnail generation is
a separate step that runs afterwards; its failure is logged and never undoes
the avatar change.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - slug: string
  - filename: string (original name, used for the extension)
  - body: io.Reader

Returns:
  - *Manga: Updated manga
  - error: FORBIDDEN, NOT_FOUND or storage failures
*/
func (service *Service) SetAvatar(context context.Context, actor sec.Actor, slug, filename string, body io.Reader) (*Manga, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can change manga artwork")
	}

	ref, err := service.repo.FindRef(context, slug)
	if err != nil {
		return nil, err
	}

	avatar, err := service.blobs.Save(context, AvatarDir, filename, body)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	previousAvatar, previousThumbnail, err := service.repo.SetAvatar(context, ref.ID, avatar)
	if err != nil {
		service.discard(context, avatar)
		return nil, err
	}
	service.discard(context, previousAvatar, previousThumbnail)

	service.logger.Info("manga_avatar_updated", slog.String("manga_id", ref.ID), slog.String("actor_id", actor.UserID))

	// Derivation errors are already logged; the manga is returned regardless.
	_, _ = service.RegenerateThumbnail(context, ref.ID, avatar)

	return service.GetManga(context, ref.Slug)
}

/*
RegenerateThumbnail derives the thumbnail of avatar and attaches it to the
manga identified by mangaID.

Description: The step is independent of the avatar write and may be retried.
When the avatar was replaced while the thumbnail was being produced, the
result is discarded.

Returns:
  - string: The stored thumbnail reference
  - error: Any failure, after it has been logged
*/
func (service *Service) RegenerateThumbnail(context context.Context, mangaID, avatar string) (string, error) {
	thumbnail, err := service.renderThumbnail(context, avatar)
	if err == nil {
		var applied bool
		applied, err = service.repo.SetThumbnail(context, mangaID, avatar, thumbnail)
		if err == nil && !applied {
			err = apperr.Conflict("Avatar changed while the thumbnail was generated")
		}
		if err != nil {
			service.discard(context, thumbnail)
		}
	}

	if err != nil {
		service.logger.Warn("thumbnail_generation_failed",
			slog.String("manga_id", mangaID),
			slog.String("avatar", avatar),
			slog.Any("error", err),
		)
		return "", err
	}

	service.logger.Info("thumbnail_generated", slog.String("manga_id", mangaID), slog.String("thumbnail", thumbnail))
	return thumbnail, nil
}

func (service *Service) renderThumbnail(context context.Context, avatar string) (string, error) {
	source, err := service.blobs.Open(context, avatar)
	if err != nil {
		return "", err
	}
	defer source.Close()

	var encoded bytes.Buffer
	if err := imaging.Thumbnail(source, &encoded, constants.ThumbnailWidth, constants.ThumbnailHeight); err != nil {
		return "", err
	}

	return service.blobs.Save(context, ThumbnailDir, "thumbnail.png", &encoded)
}

// discard deletes blobs that are no longer referenced. Failures only leave
// orphaned files behind, so they are logged and ignored.
func (service *Service) discard(context context.Context, refs ...string) {
	for _, ref := range slice.Filter(refs, func(ref string) bool { return ref != "" }) {
		if err := service.blobs.Delete(context, ref); err != nil {
			service.logger.Warn("blob_delete_failed", slog.String("ref", ref), slog.Any("error", err))
		}
	}
}

func (service *Service) fillURLs(items ...*Manga) {
	for _, manga := range items {
		manga.AvatarURL = service.blobs.URL(manga.Avatar)
		manga.ThumbnailURL = service.blobs.URL(manga.Thumbnail)
	}
}
