// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// # Fakes

type memoryRepository struct {
	chapters []*chapter.Chapter
	pages    []*chapter.Page

	// lostRaces makes that many auto-numbered inserts fail as if another
	// request had taken the number first.
	lostRaces   int
	pageInserts int
}

func pageNumberTaken() error {
	cause := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: schema.CatalogPage.PageNumberConstraint}
	return apperr.Conflict("Page number already exists in this chapter").WithCause(cause)
}

func (repo *memoryRepository) ListByManga(_ context.Context, mangaID string, _, _ int) ([]*chapter.Chapter, int, error) {
	var result []*chapter.Chapter
	for _, c := range repo.chapters {
		if c.MangaID == mangaID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (repo *memoryRepository) Latest(_ context.Context, limit int) ([]*chapter.Chapter, error) {
	return repo.chapters[:min(limit, len(repo.chapters))], nil
}

func (repo *memoryRepository) FindBySlug(_ context.Context, slug string) (*chapter.Chapter, error) {
	for _, c := range repo.chapters {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Chapter")
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	for _, c := range repo.chapters {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Chapter")
}

func (repo *memoryRepository) taken(c *chapter.Chapter) bool {
	for _, existing := range repo.chapters {
		if existing.ID != c.ID && existing.MangaID == c.MangaID && existing.Volume == c.Volume && existing.Number == c.Number {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) Create(_ context.Context, c *chapter.Chapter) error {
	if repo.taken(c) {
		return apperr.Conflict("Chapter with this volume and number already exists")
	}
	c.CreatedAt = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(len(repo.chapters)) * time.Minute)
	c.UpdatedAt = c.CreatedAt
	stored := *c
	repo.chapters = append(repo.chapters, &stored)
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, c *chapter.Chapter) error {
	if repo.taken(c) {
		return apperr.Conflict("Chapter with this volume and number already exists")
	}
	for i, existing := range repo.chapters {
		if existing.ID == c.ID {
			stored := *c
			repo.chapters[i] = &stored
			return nil
		}
	}
	return apperr.NotFound("Chapter")
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	for i, c := range repo.chapters {
		if c.ID == id {
			repo.chapters = append(repo.chapters[:i], repo.chapters[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Chapter")
}

func (repo *memoryRepository) ListPages(_ context.Context, chapterID string) ([]*chapter.Page, error) {
	result := make([]*chapter.Page, 0)
	for _, p := range repo.pages {
		if p.ChapterID == chapterID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (repo *memoryRepository) AddPage(_ context.Context, page *chapter.Page) error {
	repo.pageInserts++

	if page.PageNumber == 0 {
		if repo.lostRaces > 0 {
			repo.lostRaces--
			return pageNumberTaken()
		}
		highest := 0
		for _, p := range repo.pages {
			if p.ChapterID == page.ChapterID {
				highest = max(highest, p.PageNumber)
			}
		}
		page.PageNumber = highest + 1
	}

	for _, p := range repo.pages {
		if p.ChapterID == page.ChapterID && p.PageNumber == page.PageNumber {
			return pageNumberTaken()
		}
	}

	stored := *page
	repo.pages = append(repo.pages, &stored)
	return nil
}

func (repo *memoryRepository) FindPage(_ context.Context, id string) (*chapter.Page, error) {
	for _, p := range repo.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Page")
}

func (repo *memoryRepository) DeletePage(_ context.Context, id string) error {
	for i, p := range repo.pages {
		if p.ID == id {
			repo.pages = append(repo.pages[:i], repo.pages[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Page")
}

type staticMangas map[string]*manga.Ref

func (mangas staticMangas) Resolve(_ context.Context, slug string) (*manga.Ref, error) {
	if ref, ok := mangas[slug]; ok {
		return ref, nil
	}
	return nil, apperr.NotFound("Manga")
}

type memoryBlobs struct {
	files map[string]string
	next  int
}

func (blobs *memoryBlobs) Save(_ context.Context, dir, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	blobs.next++
	ref := fmt.Sprintf("%s/%d.png", dir, blobs.next)
	blobs.files[ref] = string(data)
	return ref, nil
}

func (blobs *memoryBlobs) Delete(_ context.Context, ref string) error {
	delete(blobs.files, ref)
	return nil
}

func (blobs *memoryBlobs) URL(ref string) string { return "/media/" + ref }

// # Helpers

var editor = sec.Actor{UserID: "editor-1", Role: sec.RoleEditor}

type fixture struct {
	service *chapter.Service
	repo    *memoryRepository
	blobs   *memoryBlobs
	created []chapter.Created
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo:  &memoryRepository{},
		blobs: &memoryBlobs{files: map[string]string{}},
	}

	bus := events.NewBus(logger)
	events.Subscribe(bus, func(_ context.Context, event chapter.Created) error {
		f.created = append(f.created, event)
		return nil
	})

	mangas := staticMangas{
		"test_english": {ID: "manga-1", Name: "Test Manga", Slug: "test_english", CanonicalKey: "Test_English"},
	}
	f.service = chapter.NewService(f.repo, mangas, f.blobs, bus, logger)
	return f
}

func (f *fixture) createChapter(t *testing.T, volume, number int) *chapter.Chapter {
	t.Helper()
	created, err := f.service.CreateChapter(context.Background(), editor, "test_english", chapter.CreateInput{
		Title:  "Chapter",
		Volume: volume,
		Number: number,
	})
	require.NoError(t, err)
	return created
}

// # Chapter Tests

/*
TestCreateChapter_Slug checks the derived slug of the end-to-end example.
*/
func TestCreateChapter_Slug(t *testing.T) {
	f := newFixture()
	created := f.createChapter(t, 1, 1)

	assert.Equal(t, "test_english-1-1", created.Slug)
	assert.Equal(t, "test_english-1-1", chapter.Slug("Test_English", 1, 1))
}

/*
TestCreateChapter_PublishesOnce verifies that creation announces the chapter
and that later updates do not.
*/
func TestCreateChapter_PublishesOnce(t *testing.T) {
	f := newFixture()
	created := f.createChapter(t, 1, 1)

	require.Len(t, f.created, 1)
	assert.Equal(t, chapter.Created{ChapterID: created.ID, MangaID: "manga-1", Slug: created.Slug, CreatedAt: created.CreatedAt}, f.created[0])
	assert.False(t, f.created[0].CreatedAt.IsZero())

	_, err := f.service.UpdateChapter(context.Background(), editor, created.Slug, chapter.Patch{Title: pointer.To("Renamed")})
	require.NoError(t, err)
	assert.Len(t, f.created, 1)
}

/*
TestCreateChapter_SubscriberFailureIsNotFatal keeps the chapter when a
subscriber fails.
*/
func TestCreateChapter_SubscriberFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus(logger)
	events.Subscribe(bus, func(context.Context, chapter.Created) error { return errors.New("fan-out failed") })

	service := chapter.NewService(f.repo, staticMangas{"m": {ID: "manga-2", CanonicalKey: "M"}}, f.blobs, bus, logger)
	created, err := service.CreateChapter(context.Background(), editor, "m", chapter.CreateInput{Volume: 0, Number: 3})

	require.NoError(t, err)
	assert.Equal(t, "m-0-3", created.Slug)
	assert.Len(t, f.repo.chapters, 1)
}

/*
TestCreateChapter_Errors covers conflicts, validation, roles and unknown manga.
*/
func TestCreateChapter_Errors(t *testing.T) {
	f := newFixture()
	f.createChapter(t, 1, 1)

	_, err := f.service.CreateChapter(context.Background(), editor, "test_english", chapter.CreateInput{Volume: 1, Number: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = f.service.CreateChapter(context.Background(), editor, "test_english", chapter.CreateInput{Volume: -1, Number: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.CreateChapter(context.Background(), editor, "test_english", chapter.CreateInput{Title: strings.Repeat("x", 51)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.CreateChapter(context.Background(), sec.Actor{UserID: "u", Role: sec.RoleMember}, "test_english", chapter.CreateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.CreateChapter(context.Background(), editor, "missing", chapter.CreateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.Len(t, f.created, 1)
}

/*
TestUpdateChapter_RecomputesSlug follows volume and number changes and is
idempotent for unchanged values.
*/
func TestUpdateChapter_RecomputesSlug(t *testing.T) {
	f := newFixture()
	f.createChapter(t, 1, 1)

	same, err := f.service.UpdateChapter(context.Background(), editor, "test_english-1-1", chapter.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "test_english-1-1", same.Slug)
	assert.Equal(t, 1, same.Volume)
	assert.Equal(t, 1, same.Number)

	moved, err := f.service.UpdateChapter(context.Background(), editor, "test_english-1-1", chapter.Patch{
		Title:  pointer.To("  Finale  "),
		Volume: pointer.To(2),
		Number: pointer.To(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "test_english-2-7", moved.Slug)
	assert.Equal(t, "Finale", moved.Title)

	_, err = f.service.GetChapter(context.Background(), "test_english-2-7")
	assert.NoError(t, err)
}

// # Page Tests

/*
TestAddPage_Numbering covers automatic numbering, explicit numbers and
conflicts on explicit numbers.
*/
func TestAddPage_Numbering(t *testing.T) {
	f := newFixture()
	created := f.createChapter(t, 1, 1)
	ctx := context.Background()

	first, err := f.service.AddPage(ctx, editor, created.Slug, "a.png", strings.NewReader("a"), nil)
	require.NoError(t, err)
	second, err := f.service.AddPage(ctx, editor, created.Slug, "b.png", strings.NewReader("b"), nil)
	require.NoError(t, err)
	tenth, err := f.service.AddPage(ctx, editor, created.Slug, "c.png", strings.NewReader("c"), pointer.To(10))
	require.NoError(t, err)

	assert.Equal(t, 1, first.PageNumber)
	assert.Equal(t, 2, second.PageNumber)
	assert.Equal(t, 10, tenth.PageNumber)
	assert.Equal(t, "/media/"+first.Image, first.ImageURL)

	inserts := f.repo.pageInserts
	_, err = f.service.AddPage(ctx, editor, created.Slug, "d.png", strings.NewReader("d"), pointer.To(2))
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, inserts+1, f.repo.pageInserts, "explicit numbers are never retried")
	assert.Len(t, f.blobs.files, 3, "the rejected upload is discarded")

	_, err = f.service.AddPage(ctx, editor, created.Slug, "e.png", strings.NewReader("e"), pointer.To(0))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestAddPage_RetriesLostRace retries automatic numbering after unique
violations and gives up after the retry budget.
*/
func TestAddPage_RetriesLostRace(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		f := newFixture()
		created := f.createChapter(t, 1, 1)
		f.repo.lostRaces = 2

		page, err := f.service.AddPage(context.Background(), editor, created.Slug, "a.png", strings.NewReader("a"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, page.PageNumber)
		assert.Equal(t, 3, f.repo.pageInserts)
	})

	t.Run("gives up", func(t *testing.T) {
		f := newFixture()
		created := f.createChapter(t, 1, 1)
		f.repo.lostRaces = 100

		_, err := f.service.AddPage(context.Background(), editor, created.Slug, "a.png", strings.NewReader("a"), nil)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
		assert.Equal(t, 5, f.repo.pageInserts)
		assert.Empty(t, f.blobs.files)
	})
}

/*
TestDeleteChapter_RemovesPageImages cleans up blobs after the delete.
*/
func TestDeleteChapter_RemovesPageImages(t *testing.T) {
	f := newFixture()
	created := f.createChapter(t, 1, 1)

	_, err := f.service.AddPage(context.Background(), editor, created.Slug, "a.png", strings.NewReader("a"), nil)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteChapter(context.Background(), editor, created.Slug))
	assert.Empty(t, f.repo.chapters)
	assert.Empty(t, f.blobs.files)
}
