package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonggu-lab/gonggu-backend/pkg/db/dbtest"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

func seedNotification(t *testing.T, repo Repository, userID uuid.UUID, createdAt time.Time, read bool) models.Notification {
	t.Helper()
	n := models.Notification{
		UserID:    userID,
		Type:      enums.NotificationTypeStatusChange,
		Title:     "t",
		Body:      "b",
		CreatedAt: createdAt,
	}
	if read {
		at := createdAt.Add(time.Minute)
		n.ReadAt = &at
	}
	require.NoError(t, repo.Create(context.Background(), &n))
	return n
}

func TestRepositoryListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	user, other := uuid.New(), uuid.New()
	now := time.Now().UTC()

	older := seedNotification(t, repo, user, now.Add(-2*time.Hour), false)
	newer := seedNotification(t, repo, user, now.Add(-time.Hour), false)
	seedNotification(t, repo, other, now, false)

	rows, total, err := repo.List(ctx, listNotificationsParams{UserID: user, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID, "newest first")

	res, err := repo.MarkRead(ctx, user, older.ID, now)
	require.NoError(t, err)
	assert.True(t, res.Updated)

	res, err = repo.MarkRead(ctx, user, older.ID, now)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.True(t, res.Found, "already-read rows are still found")

	res, err = repo.MarkRead(ctx, other, older.ID, now)
	require.NoError(t, err)
	assert.False(t, res.Found, "rows of other users are invisible")

	rows, total, err = repo.List(ctx, listNotificationsParams{UserID: user, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, newer.ID, rows[0].ID)

	count, err := repo.MarkAllRead(ctx, user, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepositoryDeleteOlderThanKeepsUnread(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	user := uuid.New()
	now := time.Now().UTC()

	seedNotification(t, repo, user, now.Add(-60*24*time.Hour), true)
	unreadOld := seedNotification(t, repo, user, now.Add(-60*24*time.Hour), false)
	recent := seedNotification(t, repo, user, now.Add(-time.Hour), true)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.Notification
	require.NoError(t, conn.Order("created_at").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.ElementsMatch(t, []uuid.UUID{unreadOld.ID, recent.ID}, []uuid.UUID{remaining[0].ID, remaining[1].ID})
}
