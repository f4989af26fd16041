// services/streaks.go - Activity Ledger & Streak Calculator
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"goaltrack/models"
	"goaltrack/repository"
)

// StreakService maintains the daily activity ledger and derives consecutive-day
// streaks from it. Streak values written to the user row are caches: always
// re-derivable from the ledger, overwritten on every recompute.
type StreakService struct {
	ledger repository.ActivityRepository
	now    func() time.Time
}

func NewStreakService(ledger repository.ActivityRepository) *StreakService {
	return &StreakService{
		ledger: ledger,
		now:    time.Now,
	}
}

// RecordDailyActivity upserts today's ledger row with the given activity type
// and returns the user's recomputed current streak.
func (s *StreakService) RecordDailyActivity(ctx context.Context, userID uint, activityType string) (int, error) {
	today := s.today()
	if err := s.ledger.UpsertDay(ctx, userID, today.Format(models.DateLayout), activityType); err != nil {
		return 0, fmt.Errorf("record activity: %w", err)
	}
	return s.CurrentStreak(ctx, userID)
}

// CurrentStreak walks the ledger backward from the anchor day and caches the
// resulting count on the user row.
//
// Anchor rules: today if it has a record, else yesterday (the one-day grace
// period), else the streak is 0 no matter how long the user once ran.
func (s *StreakService) CurrentStreak(ctx context.Context, userID uint) (int, error) {
	dates, err := s.ledger.DatesDesc(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("fetch activity dates: %w", err)
	}

	streak := currentStreakFrom(dates, s.today())

	// Cache write, not authoritative. Failure is logged and swallowed.
	if err := s.ledger.SetCurrentStreak(ctx, userID, streak); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to cache current streak")
	}
	return streak, nil
}

// LongestStreak scans the full ascending history for the longest run of
// consecutive days. Independent of the current streak: a broken current run
// never shrinks the longest one.
func (s *StreakService) LongestStreak(ctx context.Context, userID uint) (int, error) {
	dates, err := s.ledger.DatesAsc(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("fetch activity dates: %w", err)
	}

	longest := longestRunFrom(dates)

	if err := s.ledger.SetLongestStreak(ctx, userID, longest); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to cache longest streak")
	}
	return longest, nil
}

// Leaderboard returns users ranked by cached current streak.
func (s *StreakService) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.ledger.StreakLeaderboard(ctx, limit)
}

func (s *StreakService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// currentStreakFrom counts consecutive calendar days backward from the anchor.
// Dates are ledger day strings; today is the evaluation day at midnight UTC.
func currentStreakFrom(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		seen[models.NormalizeDate(d)] = true
	}

	anchor := today
	if !seen[anchor.Format(models.DateLayout)] {
		anchor = today.AddDate(0, 0, -1)
		if !seen[anchor.Format(models.DateLayout)] {
			return 0
		}
	}

	streak := 0
	for day := anchor; seen[day.Format(models.DateLayout)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// longestRunFrom groups ascending dates into runs of consecutive days and
// returns the longest run length. A day continues a run only when it is
// exactly one day after the previous date; any gap starts a new run.
func longestRunFrom(dates []string) int {
	longest, run := 0, 0
	var prev time.Time

	for _, d := range dates {
		day, err := time.Parse(models.DateLayout, models.NormalizeDate(d))
		if err != nil {
			continue
		}
		if run > 0 && day.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}
	return longest
}
