package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"goaltrack/models"
	"goaltrack/repository"
)

func newAchievementFixture(t *testing.T) (*AchievementService, *gorm.DB, models.User) {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, SeedAchievements(db))
	catalog, err := LoadCatalog(db)
	require.NoError(t, err)

	svc := NewAchievementService(
		catalog,
		repository.NewProgressRepository(db),
		repository.NewNotificationRepository(db),
	)
	return svc, db, createUser(t, db, "alice")
}

func TestCheckAndUnlockBelowTarget(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	got, err := svc.CheckAndUnlock(ctx, user.ID, "goal_setter", 3)
	require.NoError(t, err)
	assert.Nil(t, got)

	var ach models.Achievement
	require.NoError(t, db.Where("key = ?", "goal_setter").First(&ach).Error)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ? AND achievement_id = ?", user.ID, ach.ID).First(&row).Error)
	assert.Equal(t, 3, row.Progress)
	assert.Nil(t, row.UnlockedAt)
}

func TestCheckAndUnlockCrossesThresholdOnce(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	got, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first_goal", got.Key)

	// Replaying the same measurement must not unlock again.
	got, err = svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Exactly one notification was emitted across both calls.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckAndUnlockClampsAboveTarget(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	got, err := svc.CheckAndUnlock(ctx, user.ID, "goal_setter", 999)
	require.NoError(t, err)
	require.NotNil(t, got)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ? AND achievement_id = ?", user.ID, got.ID).First(&row).Error)
	assert.Equal(t, 5, row.Progress)
}

func TestCheckAndUnlockIgnoresNegativeValues(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	got, err := svc.CheckAndUnlock(ctx, user.ID, "goal_setter", -10)
	require.NoError(t, err)
	assert.Nil(t, got)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	assert.Equal(t, 0, row.Progress)
}

func TestCheckAndUnlockUnknownKeyIsNoOp(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	got, err := svc.CheckAndUnlock(ctx, user.ID, "not_seeded_yet", 100)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int64
	require.NoError(t, db.Model(&models.UserAchievementProgress{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProgressNeverRegresses(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	_, err := svc.CheckAndUnlock(ctx, user.ID, "goal_setter", 4)
	require.NoError(t, err)

	// An out-of-order stale measurement arrives afterwards.
	_, err = svc.CheckAndUnlock(ctx, user.ID, "goal_setter", 2)
	require.NoError(t, err)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	assert.Equal(t, 4, row.Progress)
}

func TestTrackMultipleReturnsOnlyNewUnlocks(t *testing.T) {
	svc, _, user := newAchievementFixture(t)
	ctx := context.Background()

	unlocked := svc.TrackMultiple(ctx, user.ID, []TrackedEvent{
		{Key: "first_goal", Value: 1},
		{Key: "goal_setter", Value: 3},
		{Key: "unknown_key", Value: 50},
	})
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_goal", unlocked[0].Key)

	unlocked = svc.TrackMultiple(ctx, user.ID, []TrackedEvent{
		{Key: "first_goal", Value: 1},
		{Key: "goal_setter", Value: 5},
	})
	require.Len(t, unlocked, 1)
	assert.Equal(t, "goal_setter", unlocked[0].Key)
}

// failingNotifications drops every write, standing in for a broken sink.
type failingNotifications struct {
	repository.NotificationRepository
}

func (f *failingNotifications) Create(ctx context.Context, n *models.Notification) error {
	return errors.New("notification sink down")
}

func TestUnlockSurvivesNotificationFailure(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedAchievements(db))
	catalog, err := LoadCatalog(db)
	require.NoError(t, err)

	svc := NewAchievementService(
		catalog,
		repository.NewProgressRepository(db),
		&failingNotifications{NotificationRepository: repository.NewNotificationRepository(db)},
	)
	user := createUser(t, db, "alice")
	ctx := context.Background()

	// The announcement is best-effort; the unlock itself must stay committed.
	got, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first_goal", got.Key)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	require.NotNil(t, row.UnlockedAt)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// A replay after the sink failure must not re-unlock either.
	got, err = svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConcurrentEventsUnlockExactlyOnce(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	ctx := context.Background()

	const callers = 8
	results := make(chan *models.Achievement, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
			assert.NoError(t, err)
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for got := range results {
		if got != nil {
			won++
		}
	}
	assert.Equal(t, 1, won)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUnlockTimestampIsStable(t *testing.T) {
	svc, db, user := newAchievementFixture(t)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)

	svc.now = func() time.Time { return fixed.Add(48 * time.Hour) }
	_, err = svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)

	var row models.UserAchievementProgress
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	require.NotNil(t, row.UnlockedAt)
	assert.WithinDuration(t, fixed, *row.UnlockedAt, time.Second)
}

func TestUserAchievementsJoinsFullCatalog(t *testing.T) {
	svc, _, user := newAchievementFixture(t)
	ctx := context.Background()

	_, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)
	_, err = svc.CheckAndUnlock(ctx, user.ID, "goal_setter", 2)
	require.NoError(t, err)

	views, err := svc.UserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, views, len(CatalogDefs()))

	byKey := make(map[string]UserAchievementView, len(views))
	for _, v := range views {
		byKey[v.Achievement.Key] = v
	}

	assert.True(t, byKey["first_goal"].Unlocked)
	assert.Equal(t, float64(100), byKey["first_goal"].Percent)
	assert.False(t, byKey["goal_setter"].Unlocked)
	assert.Equal(t, 2, byKey["goal_setter"].Progress)
	assert.Equal(t, float64(40), byKey["goal_setter"].Percent)
	// Untouched rows come back zeroed.
	assert.Equal(t, 0, byKey["unbreakable"].Progress)
}

func TestUserStats(t *testing.T) {
	svc, _, user := newAchievementFixture(t)
	ctx := context.Background()

	_, err := svc.CheckAndUnlock(ctx, user.ID, "first_goal", 1)
	require.NoError(t, err)

	stats, err := svc.UserStats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, len(CatalogDefs()), stats.Total)
	assert.Equal(t, 1, stats.Unlocked)
	assert.Equal(t, 10, stats.Points)
	assert.Greater(t, stats.TotalPoints, stats.Points)
	require.Len(t, stats.TierStats, 5)
	assert.Equal(t, "bronze", stats.TierStats[0].Tier)
	assert.Equal(t, 1, stats.TierStats[0].Unlocked)
	assert.Equal(t, "legendary", stats.TierStats[4].Tier)
	assert.Equal(t, 0, stats.TierStats[4].Unlocked)
}
