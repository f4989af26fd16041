package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	ach := createAchievement(t, db, "first_goal", 1)

	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))
	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))

	rows, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Progress)
	assert.Nil(t, rows[0].UnlockedAt)
}

func TestRaiseNeverLowersProgress(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	ach := createAchievement(t, db, "goal_setter", 5)
	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))

	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 3))
	row, err := repo.Get(ctx, user.ID, ach.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Progress)

	// A stale lower value must leave the row untouched.
	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 1))
	row, err = repo.Get(ctx, user.ID, ach.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Progress)

	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 4))
	row, err = repo.Get(ctx, user.ID, ach.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, row.Progress)
}

func TestClaimUnlockExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	ach := createAchievement(t, db, "first_win", 1)
	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))
	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 1))

	at := time.Now().UTC()
	won, err := repo.ClaimUnlock(ctx, user.ID, ach.ID, 1, at)
	require.NoError(t, err)
	assert.True(t, won)

	// The second claim on an already-unlocked row must lose.
	won, err = repo.ClaimUnlock(ctx, user.ID, ach.ID, 1, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, won)

	row, err := repo.Get(ctx, user.ID, ach.ID)
	require.NoError(t, err)
	require.NotNil(t, row.UnlockedAt)
	assert.WithinDuration(t, at, *row.UnlockedAt, time.Second)
}

func TestClaimUnlockSingleWinnerUnderRace(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewProgressRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	ach := createAchievement(t, db, "first_win", 1)
	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))
	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 1))

	const claimers = 8
	wins := make(chan bool, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := repo.ClaimUnlock(ctx, user.ID, ach.ID, 1, time.Now().UTC())
			assert.NoError(t, err)
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestClaimUnlockRequiresTarget(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	ach := createAchievement(t, db, "achiever", 10)
	require.NoError(t, repo.Ensure(ctx, user.ID, ach.ID))
	require.NoError(t, repo.Raise(ctx, user.ID, ach.ID, 9))

	won, err := repo.ClaimUnlock(ctx, user.ID, ach.ID, 10, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, won)

	row, err := repo.Get(ctx, user.ID, ach.ID)
	require.NoError(t, err)
	assert.Nil(t, row.UnlockedAt)
}

func TestProgressRowsAreScopedPerUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ach := createAchievement(t, db, "first_goal", 1)

	require.NoError(t, repo.Ensure(ctx, alice.ID, ach.ID))
	require.NoError(t, repo.Ensure(ctx, bob.ID, ach.ID))
	require.NoError(t, repo.Raise(ctx, alice.ID, ach.ID, 1))

	aliceRow, err := repo.Get(ctx, alice.ID, ach.ID)
	require.NoError(t, err)
	bobRow, err := repo.Get(ctx, bob.ID, ach.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, aliceRow.Progress)
	assert.Equal(t, 0, bobRow.Progress)
}
