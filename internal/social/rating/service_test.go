// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/social/rating"
)

type ratingKey struct{ user, manga string }

// memoryRepository is an in-memory [rating.Repository] keyed like the
// (user, manga) unique constraint.
type memoryRepository struct {
	rows   map[ratingKey]*rating.Rating
	writes int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[ratingKey]*rating.Rating{}}
}

func (repo *memoryRepository) Upsert(_ context.Context, r *rating.Rating) (bool, error) {
	repo.writes++
	key := ratingKey{r.UserID, r.MangaID}
	if existing, ok := repo.rows[key]; ok {
		existing.Score = r.Score
		*r = *existing
		return false, nil
	}
	stored := *r
	repo.rows[key] = &stored
	return true, nil
}

func (repo *memoryRepository) Find(_ context.Context, userID, mangaID string) (*rating.Rating, error) {
	if r, ok := repo.rows[ratingKey{userID, mangaID}]; ok {
		return r, nil
	}
	return nil, apperr.NotFound("Rating")
}

func (repo *memoryRepository) Delete(_ context.Context, userID, mangaID string) error {
	key := ratingKey{userID, mangaID}
	if _, ok := repo.rows[key]; !ok {
		return apperr.NotFound("Rating")
	}
	delete(repo.rows, key)
	return nil
}

func (repo *memoryRepository) Summary(_ context.Context, mangaID string) (*rating.Summary, error) {
	summary := &rating.Summary{}
	sum := 0
	for key, r := range repo.rows {
		if key.manga == mangaID {
			sum += r.Score
			summary.Count++
		}
	}
	if summary.Count > 0 {
		average := float64(sum) / float64(summary.Count)
		summary.Average = &average
	}
	return summary, nil
}

type staticMangas map[string]*manga.Ref

func (mangas staticMangas) Resolve(_ context.Context, slug string) (*manga.Ref, error) {
	if ref, ok := mangas[slug]; ok {
		return ref, nil
	}
	return nil, apperr.NotFound("Manga")
}

var (
	alice = sec.Actor{UserID: "alice", Role: sec.RoleMember}
	bob   = sec.Actor{UserID: "bob", Role: sec.RoleMember}
)

func newService() (*rating.Service, *memoryRepository) {
	repo := newMemoryRepository()
	mangas := staticMangas{"test_english": {ID: "manga-1", Slug: "test_english"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return rating.NewService(repo, mangas, logger), repo
}

/*
TestSubmitRating_RejectsOutOfRange never clamps and never writes.
*/
func TestSubmitRating_RejectsOutOfRange(t *testing.T) {
	service, repo := newService()

	for _, score := range []int{0, 6, -1} {
		_, _, err := service.SubmitRating(context.Background(), alice, "test_english", score)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "score %d", score)
	}
	assert.Zero(t, repo.writes)
}

/*
TestSubmitRating_UpsertsPerUser keeps a single row per (user, manga).
*/
func TestSubmitRating_UpsertsPerUser(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	first, created, err := service.SubmitRating(ctx, alice, "test_english", 2)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := service.SubmitRating(ctx, alice, "test_english", 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Score)
	assert.Len(t, repo.rows, 1)

	mine, err := service.MyRating(ctx, alice, "test_english")
	require.NoError(t, err)
	assert.Equal(t, 5, mine.Score)
}

/*
TestSummary_AverageOnRead is undefined without ratings and the arithmetic mean
otherwise.
*/
func TestSummary_AverageOnRead(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	empty, err := service.Summary(ctx, "test_english")
	require.NoError(t, err)
	assert.Nil(t, empty.Average)
	assert.Zero(t, empty.Count)

	_, _, err = service.SubmitRating(ctx, alice, "test_english", 4)
	require.NoError(t, err)
	_, _, err = service.SubmitRating(ctx, bob, "test_english", 5)
	require.NoError(t, err)

	summary, err := service.Summary(ctx, "test_english")
	require.NoError(t, err)
	require.NotNil(t, summary.Average)
	assert.InDelta(t, 4.5, *summary.Average, 1e-9)
	assert.Equal(t, 2, summary.Count)
}

/*
TestDeleteRating_OwnerOnly removes only the actor's own rating.
*/
func TestDeleteRating_OwnerOnly(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	_, _, err := service.SubmitRating(ctx, alice, "test_english", 3)
	require.NoError(t, err)

	err = service.DeleteRating(ctx, bob, "test_english")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Len(t, repo.rows, 1)

	require.NoError(t, service.DeleteRating(ctx, alice, "test_english"))
	assert.Empty(t, repo.rows)
}

/*
TestSubmitRating_UnknownManga surfaces NOT_FOUND.
*/
func TestSubmitRating_UnknownManga(t *testing.T) {
	service, _ := newService()
	_, _, err := service.SubmitRating(context.Background(), alice, "missing", 3)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
