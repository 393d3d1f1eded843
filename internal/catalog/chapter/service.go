// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/pointer"
	"github.com/taibuivan/mangashelf/pkg/slug"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// # Collaborators

// MangaResolver maps a manga slug to its identity.
type MangaResolver interface {
	Resolve(context context.Context, slug string) (*manga.Ref, error)
}

// Publisher delivers domain events to subscribers.
type Publisher interface {
	Publish(context context.Context, event events.Event) error
}

// BlobStore persists page images.
type BlobStore interface {
	Save(context context.Context, dir, filename string, r io.Reader) (string, error)
	Delete(context context.Context, ref string) error
	URL(ref string) string
}

// # Service Layer

// Service orchestrates chapters and pages.
type Service struct {
	repo      Repository
	mangas    MangaResolver
	blobs     BlobStore
	publisher Publisher
	logger    *slog.Logger
}

// NewService constructs a chapter [Service].
func NewService(repo Repository, mangas MangaResolver, blobs BlobStore, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		mangas:    mangas,
		blobs:     blobs,
		publisher: publisher,
		logger:    logger,
	}
}

// Slug derives the chapter slug from the manga key, volume and number, e.g.
// ("Test_English", 1, 1) gives "test_english-1-1".
func Slug(canonicalKey string, volume, number int) string {
	return slug.Join(canonicalKey, strconv.Itoa(volume), strconv.Itoa(number))
}

// # Chapter Operations

// ListChapters returns a page of chapters of one manga.
func (service *Service) ListChapters(context context.Context, mangaSlug string, limit, offset int) ([]*Chapter, int, error) {
	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.ListByManga(context, ref.ID, limit, offset)
}

// LatestChapters returns the most recently added chapters across the catalogue.
func (service *Service) LatestChapters(context context.Context) ([]*Chapter, error) {
	return service.repo.Latest(context, constants.LatestChaptersLimit)
}

// Resolve returns a chapter without its pages.
func (service *Service) Resolve(context context.Context, slug string) (*Chapter, error) {
	return service.repo.FindBySlug(context, slug)
}

// FindByID returns a chapter without its pages.
func (service *Service) FindByID(context context.Context, id string) (*Chapter, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Chapter")
	}
	return service.repo.FindByID(context, id)
}

// GetChapter returns a chapter with its pages.
func (service *Service) GetChapter(context context.Context, slug string) (*Chapter, error) {
	chapter, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	if chapter.Pages, err = service.pages(context, chapter.ID); err != nil {
		return nil, err
	}
	return chapter, nil
}

/*
CreateChapter validates and stores a new chapter, then announces it.

Description: The [Created] event is published after the insert has
committed. Subscriber failures are logged and do not fail the request; the
notification fan-out can be replayed for the chapter.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - mangaSlug: string
  - input: CreateInput

Returns:
  - *Chapter: Stored chapter
  - error: FORBIDDEN, VALIDATION_ERROR, NOT_FOUND or CONFLICT
*/
func (service *Service) CreateChapter(context context.Context, actor sec.Actor, mangaSlug string, input CreateInput) (*Chapter, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can add chapters")
	}

	ref, err := service.mangas.Resolve(context, mangaSlug)
	if err != nil {
		return nil, err
	}

	chapter := &Chapter{
		ID:      uuid.New(),
		MangaID: ref.ID,
		Manga:   ref,
		Title:   strings.TrimSpace(input.Title),
		Volume:  input.Volume,
		Number:  input.Number,
	}
	if err := validateChapter(chapter); err != nil {
		return nil, err
	}
	chapter.Slug = Slug(ref.CanonicalKey, chapter.Volume, chapter.Number)

	if err := service.repo.Create(context, chapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_created",
		slog.String("chapter_id", chapter.ID),
		slog.String("manga_id", ref.ID),
		slog.String("slug", chapter.Slug),
		slog.String("actor_id", actor.UserID),
	)

	event := Created{ChapterID: chapter.ID, MangaID: ref.ID, Slug: chapter.Slug, CreatedAt: chapter.CreatedAt}
	if err := service.publisher.Publish(context, event); err != nil {
		service.logger.Error("chapter_created_publish_failed",
			slog.String("chapter_id", chapter.ID),
			slog.Any("error", err),
		)
	}

	return chapter, nil
}

/*
UpdateChapter applies a partial update and recomputes the slug.

Description: The slug always follows the current volume and number, so
saving twice with the same values yields the same slug. No event is
published.
*/
func (service *Service) UpdateChapter(context context.Context, actor sec.Actor, slug string, patch Patch) (*Chapter, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can edit chapters")
	}

	chapter, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	chapter.Title = strings.TrimSpace(pointer.Fallback(patch.Title, chapter.Title))
	chapter.Volume = pointer.Fallback(patch.Volume, chapter.Volume)
	chapter.Number = pointer.Fallback(patch.Number, chapter.Number)
	if err := validateChapter(chapter); err != nil {
		return nil, err
	}
	chapter.Slug = Slug(chapter.Manga.CanonicalKey, chapter.Volume, chapter.Number)

	if err := service.repo.Update(context, chapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_updated", slog.String("chapter_id", chapter.ID), slog.String("actor_id", actor.UserID))
	return chapter, nil
}

// DeleteChapter removes a chapter and the images of its pages.
func (service *Service) DeleteChapter(context context.Context, actor sec.Actor, slug string) error {
	if !actor.CanManageContent() {
		return apperr.Forbidden("Only editors can delete chapters")
	}

	chapter, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return err
	}

	pages, err := service.repo.ListPages(context, chapter.ID)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, chapter.ID); err != nil {
		return err
	}

	for _, page := range pages {
		service.discard(context, page.Image)
	}

	service.logger.Info("chapter_deleted", slog.String("chapter_id", chapter.ID), slog.String("actor_id", actor.UserID))
	return nil
}

func validateChapter(chapter *Chapter) error {
	validator := &validate.Validator{}
	validator.MaxLen(FieldTitle, chapter.Title, maxTitleLength)
	validator.Custom(FieldVolume, chapter.Volume < 0, "Must not be negative")
	validator.Custom(FieldNumber, chapter.Number < 0, "Must not be negative")
	return validator.Err()
}

// # Page Operations

// ListPages returns the pages of a chapter in reading order.
func (service *Service) ListPages(context context.Context, chapterSlug string) ([]*Page, error) {
	chapter, err := service.repo.FindBySlug(context, chapterSlug)
	if err != nil {
		return nil, err
	}
	return service.pages(context, chapter.ID)
}

func (service *Service) pages(context context.Context, chapterID string) ([]*Page, error) {
	pages, err := service.repo.ListPages(context, chapterID)
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		page.ImageURL = service.blobs.URL(page.Image)
	}
	return pages, nil
}

/*
AddPage stores an image and appends it to the chapter.

Description: An explicit page number that is already taken is a conflict. When
pageNumber is nil the database assigns the next number; losing a race for that
number is retried a bounded number of times before reporting a conflict.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - chapterSlug: string
  - filename: string
  - body: io.Reader
  - pageNumber: *int (optional, positive)

Returns:
  - *Page: Stored page
  - error: FORBIDDEN, VALIDATION_ERROR, NOT_FOUND or CONFLICT
*/
func (service *Service) AddPage(context context.Context, actor sec.Actor, chapterSlug, filename string, body io.Reader, pageNumber *int) (*Page, error) {
	if !actor.CanManageContent() {
		return nil, apperr.Forbidden("Only editors can add pages")
	}
	if pageNumber != nil {
		if err := (&validate.Validator{}).Positive(FieldPageNumber, *pageNumber).Err(); err != nil {
			return nil, err
		}
	}

	chapter, err := service.repo.FindBySlug(context, chapterSlug)
	if err != nil {
		return nil, err
	}

	image, err := service.blobs.Save(context, PageDir, filename, body)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	page := &Page{ChapterID: chapter.ID, Image: image}
	if err := service.insertPage(context, page, pageNumber); err != nil {
		service.discard(context, image)
		return nil, err
	}

	page.ImageURL = service.blobs.URL(page.Image)
	service.logger.Info("page_added",
		slog.String("chapter_id", chapter.ID),
		slog.Int("page_number", page.PageNumber),
		slog.String("actor_id", actor.UserID),
	)
	return page, nil
}

func (service *Service) insertPage(context context.Context, page *Page, pageNumber *int) error {
	if pageNumber != nil {
		page.ID = uuid.New()
		page.PageNumber = *pageNumber
		return service.repo.AddPage(context, page)
	}

	var err error
	for attempt := 1; attempt <= constants.PageNumberRetries; attempt++ {
		page.ID = uuid.New()
		page.PageNumber = 0

		err = service.repo.AddPage(context, page)
		if !dberr.IsUniqueViolation(err, schema.CatalogPage.PageNumberConstraint) {
			return err
		}

		service.logger.Warn("page_number_retry",
			slog.String("chapter_id", page.ChapterID),
			slog.String("constraint", dberr.ConstraintName(err)),
			slog.Int("attempt", attempt),
		)
	}
	return err
}

// DeletePage removes a page and its image.
func (service *Service) DeletePage(context context.Context, actor sec.Actor, id string) error {
	if !actor.CanManageContent() {
		return apperr.Forbidden("Only editors can delete pages")
	}
	if !uuid.Valid(id) {
		return apperr.NotFound("Page")
	}

	page, err := service.repo.FindPage(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeletePage(context, id); err != nil {
		return err
	}

	service.discard(context, page.Image)
	return nil
}

func (service *Service) discard(context context.Context, ref string) {
	if err := service.blobs.Delete(context, ref); err != nil {
		service.logger.Warn("blob_delete_failed", slog.String("ref", ref), slog.Any("error", err))
	}
}
