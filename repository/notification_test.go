package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltrack/models"
)

func TestMarkReadIsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	n := &models.Notification{UserID: alice.ID, Title: "First Win", Message: "Achievement unlocked"}
	require.NoError(t, repo.Create(ctx, n))

	// Another user marking someone else's notification must change nothing.
	require.NoError(t, repo.MarkRead(ctx, bob.ID, n.ID))
	var got models.Notification
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.False(t, got.Read)

	require.NoError(t, repo.MarkRead(ctx, alice.ID, n.ID))
	require.NoError(t, db.First(&got, n.ID).Error)
	assert.True(t, got.Read)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	old := models.Notification{UserID: user.ID, Title: "old", Message: "m", CreatedAt: time.Now().Add(-time.Hour)}
	recent := models.Notification{UserID: user.ID, Title: "recent", Message: "m", CreatedAt: time.Now()}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&recent).Error)

	rows, err := repo.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "recent", rows[0].Title)

	rows, err = repo.ListByUser(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPurgeReadOlderThan(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	oldRead := models.Notification{UserID: user.ID, Title: "old-read", Message: "m", Read: true, CreatedAt: cutoff.Add(-time.Hour)}
	oldUnread := models.Notification{UserID: user.ID, Title: "old-unread", Message: "m", CreatedAt: cutoff.Add(-time.Hour)}
	recentRead := models.Notification{UserID: user.ID, Title: "recent-read", Message: "m", Read: true, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&oldRead).Error)
	require.NoError(t, db.Create(&oldUnread).Error)
	require.NoError(t, db.Create(&recentRead).Error)

	purged, err := repo.PurgeReadOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var remaining []models.Notification
	require.NoError(t, db.Order("id ASC").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "old-unread", remaining[0].Title)
	assert.Equal(t, "recent-read", remaining[1].Title)
}
