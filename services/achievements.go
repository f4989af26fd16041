// services/achievements.go - Unlock Evaluator
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"goaltrack/models"
	"goaltrack/repository"
)

// TrackedEvent is one (achievement key, absolute metric value) pair handed to
// the evaluator. Values are absolute measurements, never increments.
type TrackedEvent struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// UserAchievementView is one catalog row joined with the user's progress.
type UserAchievementView struct {
	Achievement models.Achievement `json:"achievement"`
	Progress    int                `json:"progress"`
	Percent     float64            `json:"percent"`
	Unlocked    bool               `json:"unlocked"`
	UnlockedAt  *time.Time         `json:"unlocked_at,omitempty"`
}

// TierStat is the unlocked count for one tier.
type TierStat struct {
	Tier     string `json:"tier"`
	Unlocked int    `json:"unlocked"`
	Total    int    `json:"total"`
}

// UserAchievementStats summarizes a user's standing across the catalog.
type UserAchievementStats struct {
	Total       int        `json:"total"`
	Unlocked    int        `json:"unlocked"`
	Points      int        `json:"points"`
	TotalPoints int        `json:"total_points"`
	Percent     float64    `json:"percent"`
	TierStats   []TierStat `json:"tiers"`
}

// AchievementService advances per-user achievement progress against the
// catalog and announces unlocks. It is context-free: it only ever sees a key
// and an absolute value, never how the value was measured.
type AchievementService struct {
	catalog       CatalogStore
	progress      repository.ProgressRepository
	notifications repository.NotificationRepository
	now           func() time.Time
}

func NewAchievementService(
	catalog CatalogStore,
	progress repository.ProgressRepository,
	notifications repository.NotificationRepository,
) *AchievementService {
	return &AchievementService{
		catalog:       catalog,
		progress:      progress,
		notifications: notifications,
		now:           time.Now,
	}
}

// CheckAndUnlock raises the user's progress on one achievement to at least
// value and returns the achievement if this call crossed the threshold.
// An unknown key is a silent no-op: feature code may reference achievements
// that have not been seeded yet, and that must never fail the caller.
func (s *AchievementService) CheckAndUnlock(ctx context.Context, userID uint, key string, value int) (*models.Achievement, error) {
	def, ok := s.catalog.ByKey(key)
	if !ok {
		return nil, nil
	}

	if value < 0 {
		value = 0
	}
	if value > def.TargetValue {
		value = def.TargetValue
	}

	if err := s.progress.Ensure(ctx, userID, def.ID); err != nil {
		return nil, fmt.Errorf("ensure progress row: %w", err)
	}
	if value > 0 {
		if err := s.progress.Raise(ctx, userID, def.ID, value); err != nil {
			return nil, fmt.Errorf("raise progress: %w", err)
		}
	}
	if value < def.TargetValue {
		return nil, nil
	}

	won, err := s.progress.ClaimUnlock(ctx, userID, def.ID, def.TargetValue, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("claim unlock: %w", err)
	}
	if !won {
		// Someone else already unlocked this one, or it was unlocked long ago.
		return nil, nil
	}

	s.emitUnlockNotification(ctx, userID, def)
	return &def, nil
}

// emitUnlockNotification is best-effort: a failed write is logged and
// swallowed, never undoing the already-committed unlock.
func (s *AchievementService) emitUnlockNotification(ctx context.Context, userID uint, def models.Achievement) {
	n := &models.Notification{
		UserID:  userID,
		Title:   def.Title,
		Message: fmt.Sprintf("Achievement unlocked: %s", def.Description),
		Icon:    def.Icon,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     userID,
			"achievement": def.Key,
		}).Error("failed to emit unlock notification")
	}
}

// TrackMultiple evaluates an ordered batch of independent events and returns
// exactly the subset that transitioned to unlocked in this call. A failing
// key is logged and skipped; the rest of the batch still runs.
func (s *AchievementService) TrackMultiple(ctx context.Context, userID uint, events []TrackedEvent) []models.Achievement {
	var unlocked []models.Achievement
	for _, ev := range events {
		a, err := s.CheckAndUnlock(ctx, userID, ev.Key, ev.Value)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":     userID,
				"achievement": ev.Key,
			}).Error("achievement evaluation failed")
			continue
		}
		if a != nil {
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}

// UserAchievements returns every catalog row joined with the user's progress.
func (s *AchievementService) UserAchievements(ctx context.Context, userID uint) ([]UserAchievementView, error) {
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	byAchievement := make(map[uint]models.UserAchievementProgress, len(rows))
	for _, row := range rows {
		byAchievement[row.AchievementID] = row
	}

	all := s.catalog.All()
	views := make([]UserAchievementView, 0, len(all))
	for _, a := range all {
		view := UserAchievementView{Achievement: a}
		if row, ok := byAchievement[a.ID]; ok {
			view.Progress = row.Progress
			view.Unlocked = row.UnlockedAt != nil
			view.UnlockedAt = row.UnlockedAt
			if a.TargetValue > 0 {
				view.Percent = float64(row.Progress) / float64(a.TargetValue) * 100
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UserStats returns unlock totals, earned points and per-tier counts.
func (s *AchievementService) UserStats(ctx context.Context, userID uint) (*UserAchievementStats, error) {
	views, err := s.UserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserAchievementStats{Total: len(views)}
	unlockedByTier := make(map[Tier]int)
	totalByTier := make(map[Tier]int)

	for _, v := range views {
		tier, _ := ParseTier(v.Achievement.Tier)
		totalByTier[tier]++
		stats.TotalPoints += v.Achievement.Points
		if v.Unlocked {
			stats.Unlocked++
			stats.Points += v.Achievement.Points
			unlockedByTier[tier]++
		}
	}
	if stats.Total > 0 {
		stats.Percent = float64(stats.Unlocked) / float64(stats.Total) * 100
	}

	for _, t := range Tiers() {
		stats.TierStats = append(stats.TierStats, TierStat{
			Tier:     t.String(),
			Unlocked: unlockedByTier[t],
			Total:    totalByTier[t],
		})
	}
	return stats, nil
}
