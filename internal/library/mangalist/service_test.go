// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangalist_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/manga"
	"github.com/taibuivan/mangashelf/internal/library/mangalist"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

// # Fakes

type entryKey struct{ userID, mangaID string }

// memoryRepository mirrors the (user, manga) unique constraint of the table.
type memoryRepository struct {
	rows  map[entryKey]*mangalist.Entry
	clock time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[entryKey]*mangalist.Entry{}}
}

func (repo *memoryRepository) Upsert(_ context.Context, entry *mangalist.Entry) (bool, error) {
	repo.clock = repo.clock.Add(time.Second)
	key := entryKey{entry.UserID, entry.MangaID}

	if existing, ok := repo.rows[key]; ok {
		existing.Status = entry.Status
		existing.UpdatedAt = repo.clock
		entry.ID, entry.CreatedAt, entry.UpdatedAt = existing.ID, existing.CreatedAt, existing.UpdatedAt
		return false, nil
	}

	entry.CreatedAt, entry.UpdatedAt = repo.clock, repo.clock
	stored := *entry
	repo.rows[key] = &stored
	return true, nil
}

func (repo *memoryRepository) Find(_ context.Context, userID, mangaID string) (*mangalist.Entry, error) {
	if entry, ok := repo.rows[entryKey{userID, mangaID}]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, apperr.NotFound("List entry")
}

func (repo *memoryRepository) ListByUser(_ context.Context, userID string, status *mangalist.Status, limit, offset int) ([]*mangalist.Entry, int, error) {
	var matched []*mangalist.Entry
	for key, entry := range repo.rows {
		if key.userID == userID && (status == nil || entry.Status == *status) {
			matched = append(matched, entry)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UpdatedAt.After(matched[j].UpdatedAt) })

	total := len(matched)
	if offset > total {
		offset = total
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) Delete(_ context.Context, userID, mangaID string) error {
	key := entryKey{userID, mangaID}
	if _, ok := repo.rows[key]; !ok {
		return apperr.NotFound("List entry")
	}
	delete(repo.rows, key)
	return nil
}

func (repo *memoryRepository) Subscribers(_ context.Context, mangaID string, asOf time.Time) ([]string, error) {
	var userIDs []string
	for key, entry := range repo.rows {
		if key.mangaID == mangaID && !entry.CreatedAt.After(asOf) {
			userIDs = append(userIDs, key.userID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

type staticMangas map[string]*manga.Ref

func (mangas staticMangas) Resolve(_ context.Context, slug string) (*manga.Ref, error) {
	if ref, ok := mangas[slug]; ok {
		return ref, nil
	}
	return nil, apperr.NotFound("Manga")
}

var farFuture = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	alice = sec.Actor{UserID: "user-alice", Username: "alice", Role: sec.RoleMember}
	bob   = sec.Actor{UserID: "user-bob", Username: "bob", Role: sec.RoleMember}
)

func newService() (*mangalist.Service, *memoryRepository) {
	repo := newMemoryRepository()
	mangas := staticMangas{
		"berserk":  {ID: "manga-1", Name: "Berserk", Slug: "berserk"},
		"vagabond": {ID: "manga-2", Name: "Vagabond", Slug: "vagabond"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mangalist.NewService(repo, mangas, logger), repo
}

// # Tests

/*
TestSetStatus_Upsert keeps a single entry per user and manga.
*/
func TestSetStatus_Upsert(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	first, created, err := service.SetStatus(ctx, alice, "berserk", mangalist.StatusPlanToRead)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "berserk", first.Manga.Slug)

	second, created, err := service.SetStatus(ctx, alice, "berserk", mangalist.StatusReading)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, mangalist.StatusReading, second.Status)

	assert.Len(t, repo.rows, 1)
}

/*
TestSetStatus_Validation rejects unknown statuses and unknown manga.
*/
func TestSetStatus_Validation(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, _, err := service.SetStatus(ctx, alice, "berserk", "Favourite")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, _, err = service.SetStatus(ctx, alice, "berserk", "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, _, err = service.SetStatus(ctx, alice, "missing", mangalist.StatusReading)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestListMine_FiltersByStatus returns only the actor's entries on one shelf.
*/
func TestListMine_FiltersByStatus(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, _, err := service.SetStatus(ctx, alice, "berserk", mangalist.StatusReading)
	require.NoError(t, err)
	_, _, err = service.SetStatus(ctx, alice, "vagabond", mangalist.StatusDropped)
	require.NoError(t, err)
	_, _, err = service.SetStatus(ctx, bob, "berserk", mangalist.StatusReading)
	require.NoError(t, err)

	all, total, err := service.ListMine(ctx, alice, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "vagabond", all[0].Manga.Slug)

	reading, total, err := service.ListMine(ctx, alice, mangalist.StatusReading, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "berserk", reading[0].Manga.Slug)

	_, _, err = service.ListMine(ctx, alice, "Favourite", 20, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestSubscribers_AnyStatus counts every listed user as a subscriber until
they remove the manga.
*/
func TestSubscribers_AnyStatus(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, _, err := service.SetStatus(ctx, alice, "berserk", mangalist.StatusNotInterested)
	require.NoError(t, err)
	_, _, err = service.SetStatus(ctx, bob, "berserk", mangalist.StatusCompleted)
	require.NoError(t, err)

	subscribers, err := service.Subscribers(ctx, "manga-1", farFuture)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-alice", "user-bob"}, subscribers)

	require.NoError(t, service.Remove(ctx, bob, "berserk"))
	subscribers, err = service.Subscribers(ctx, "manga-1", farFuture)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-alice"}, subscribers)

	err = service.Remove(ctx, bob, "berserk")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.GetMine(ctx, bob, "berserk")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestSubscribers_AsOf leaves out users whose entry was created after the
cutoff, while later status changes keep an early entry in the set.
*/
func TestSubscribers_AsOf(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	early, _, err := service.SetStatus(ctx, alice, "berserk", mangalist.StatusReading)
	require.NoError(t, err)
	cutoff := early.CreatedAt

	_, _, err = service.SetStatus(ctx, bob, "berserk", mangalist.StatusReading)
	require.NoError(t, err)
	_, _, err = service.SetStatus(ctx, alice, "berserk", mangalist.StatusCompleted)
	require.NoError(t, err)

	subscribers, err := service.Subscribers(ctx, "manga-1", cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-alice"}, subscribers)
}
