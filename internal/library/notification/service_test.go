// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/catalog/chapter"
	"github.com/taibuivan/mangashelf/internal/library/notification"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/events"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// # Fakes

// memoryRepository keeps one row per (user, chapter), like the table's
// unique constraint.
type memoryRepository struct {
	rows  []*notification.Notification
	clock time.Time
}

func (repo *memoryRepository) find(userID, id string) *notification.Notification {
	for _, row := range repo.rows {
		if row.ID == id && row.UserID == userID {
			return row
		}
	}
	return nil
}

func (repo *memoryRepository) InsertBatch(_ context.Context, chapterID string, userIDs []string) (int, error) {
	created := 0
	for _, userID := range userIDs {
		duplicate := false
		for _, row := range repo.rows {
			if row.UserID == userID && row.Chapter.ID == chapterID {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		repo.clock = repo.clock.Add(time.Second)
		repo.rows = append(repo.rows, &notification.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Chapter:   &notification.ChapterRef{ID: chapterID},
			CreatedAt: repo.clock,
		})
		created++
	}
	return created, nil
}

func (repo *memoryRepository) List(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]*notification.Notification, int, error) {
	var matched []*notification.Notification
	for _, row := range repo.rows {
		if row.UserID == userID && (!unreadOnly || !row.IsRead) {
			matched = append(matched, row)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset > total {
		offset = total
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	_, total, err := repo.List(ctx, userID, true, len(repo.rows)+1, 0)
	return total, err
}

func (repo *memoryRepository) MarkRead(_ context.Context, userID, id string) error {
	row := repo.find(userID, id)
	if row == nil {
		return apperr.NotFound("Notification")
	}
	row.IsRead = true
	return nil
}

func (repo *memoryRepository) MarkAllRead(_ context.Context, userID string) (int, error) {
	marked := 0
	for _, row := range repo.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func (repo *memoryRepository) Delete(_ context.Context, userID, id string) error {
	for i, row := range repo.rows {
		if row.ID == id && row.UserID == userID {
			repo.rows = append(repo.rows[:i], repo.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Notification")
}

// staticSubscribers maps manga id to user id and the time the manga was
// listed.
type staticSubscribers map[string]map[string]time.Time

func (subscribers staticSubscribers) Subscribers(_ context.Context, mangaID string, asOf time.Time) ([]string, error) {
	var userIDs []string
	for userID, since := range subscribers[mangaID] {
		if !since.After(asOf) {
			userIDs = append(userIDs, userID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

type staticChapters map[string]*chapter.Chapter

func (chapters staticChapters) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	if found, ok := chapters[id]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Chapter")
}

type fixture struct {
	service     *notification.Service
	repo        *memoryRepository
	subscribers staticSubscribers
	bus         *events.Bus
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo: &memoryRepository{},
		subscribers: staticSubscribers{
			"manga-1": {"user-alice": listedAt, "user-bob": listedAt, "user-carol": listedAt},
		},
		bus: events.NewBus(logger),
	}
	chapters := staticChapters{
		"chapter-1": {ID: "chapter-1", MangaID: "manga-1", Slug: "test_english-1-1", CreatedAt: publishedAt},
	}
	f.service = notification.NewService(f.repo, f.subscribers, chapters, logger)
	f.service.Register(f.bus)
	return f
}

var (
	listedAt    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	publishedAt = listedAt.Add(time.Hour)
)

var (
	alice = sec.Actor{UserID: "user-alice", Username: "alice", Role: sec.RoleMember}
	bob   = sec.Actor{UserID: "user-bob", Username: "bob", Role: sec.RoleMember}
)

// # Tests

/*
TestFanOut_OnePerSubscriber creates exactly one unread notification for each
subscriber when a chapter is published on the bus.
*/
func TestFanOut_OnePerSubscriber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.bus.Publish(ctx, chapter.Created{ChapterID: "chapter-1", MangaID: "manga-1"}))
	assert.Len(t, f.repo.rows, 3)

	for _, actor := range []sec.Actor{alice, bob} {
		count, err := f.service.UnreadCount(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
}

/*
TestFanOut_NoSubscribers is a no-op for manga nobody follows.
*/
func TestFanOut_NoSubscribers(t *testing.T) {
	f := newFixture()

	created, err := f.service.FanOut(context.Background(), chapter.Created{ChapterID: "chapter-9", MangaID: "manga-9"})
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, f.repo.rows)
}

/*
TestReplay_Idempotent creates nothing for users already notified.
*/
func TestReplay_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.FanOut(ctx, chapter.Created{ChapterID: "chapter-1", MangaID: "manga-1", CreatedAt: publishedAt})
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = f.service.Replay(ctx, "chapter-1")
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, f.repo.rows, 3)

	_, err = f.service.Replay(ctx, "chapter-404")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestReplay_SkipsLateSubscribers never notifies a user who listed the manga
after the chapter was created.
*/
func TestReplay_SkipsLateSubscribers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.subscribers["manga-1"] = map[string]time.Time{}

	created, err := f.service.FanOut(ctx, chapter.Created{ChapterID: "chapter-1", MangaID: "manga-1", CreatedAt: publishedAt})
	require.NoError(t, err)
	assert.Zero(t, created)

	f.subscribers["manga-1"]["user-late"] = publishedAt.Add(time.Minute)
	created, err = f.service.Replay(ctx, "chapter-1")
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Empty(t, f.repo.rows)
}

/*
TestReplay_RecoversFailedFanOut fills in the creation-time subscribers when
the original fan-out never ran.
*/
func TestReplay_RecoversFailedFanOut(t *testing.T) {
	f := newFixture()

	created, err := f.service.Replay(context.Background(), "chapter-1")
	require.NoError(t, err)
	assert.Equal(t, 3, created)
}

/*
TestInbox_OwnerScoped marks and deletes only the actor's own notifications.
*/
func TestInbox_OwnerScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.service.FanOut(ctx, chapter.Created{ChapterID: "chapter-1", MangaID: "manga-1"})
	require.NoError(t, err)

	mine, total, err := f.service.List(ctx, alice, false, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	id := mine[0].ID

	err = f.service.MarkRead(ctx, bob, id)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	err = f.service.Delete(ctx, bob, id)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, f.service.MarkRead(ctx, alice, id))
	unread, total, err := f.service.List(ctx, alice, true, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, unread)

	marked, err := f.service.MarkAllRead(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	require.NoError(t, f.service.Delete(ctx, alice, id))
	assert.Len(t, f.repo.rows, 2)

	err = f.service.Delete(ctx, alice, "not-a-uuid")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestFanOut_PublishError surfaces subscriber failures through the bus.
*/
func TestFanOut_PublishError(t *testing.T) {
	f := newFixture()
	failure := errors.New("boom")
	events.Subscribe(f.bus, func(context.Context, chapter.Created) error { return failure })

	err := f.bus.Publish(context.Background(), chapter.Created{ChapterID: "chapter-1", MangaID: "manga-1"})
	assert.ErrorIs(t, err, failure)
	assert.Len(t, f.repo.rows, 3)
}
