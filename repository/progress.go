// repository/progress.go - Progress Store
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaltrack/models"
)

// ProgressRepository is the engine's persistence surface for per-user
// achievement progress. Writes are expressed as conditional updates so that
// concurrent events for the same (user, achievement) pair cannot lose a raise
// or double-claim an unlock.
type ProgressRepository interface {
	Ensure(ctx context.Context, userID, achievementID uint) error
	Raise(ctx context.Context, userID, achievementID uint, value int) error
	ClaimUnlock(ctx context.Context, userID, achievementID uint, target int, at time.Time) (bool, error)
	Get(ctx context.Context, userID, achievementID uint) (*models.UserAchievementProgress, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserAchievementProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Ensure creates the (user, achievement) row if absent. Progress starts at 0;
// concurrent creators collapse onto the same row via the unique index.
func (r *progressRepository) Ensure(ctx context.Context, userID, achievementID uint) error {
	row := models.UserAchievementProgress{
		UserID:        userID,
		AchievementID: achievementID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// Raise lifts progress to at least value as a single conditional UPDATE.
// A stale or lower value leaves the row untouched, so stored progress is
// monotonically non-decreasing whatever order events arrive in.
func (r *progressRepository) Raise(ctx context.Context, userID, achievementID uint, value int) error {
	return r.db.WithContext(ctx).
		Model(&models.UserAchievementProgress{}).
		Where("user_id = ? AND achievement_id = ? AND progress < ?", userID, achievementID, value).
		Update("progress", value).Error
}

// ClaimUnlock performs the one-time unlocked_at transition. However many
// callers race on the same row, exactly one observes true.
func (r *progressRepository) ClaimUnlock(ctx context.Context, userID, achievementID uint, target int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserAchievementProgress{}).
		Where("user_id = ? AND achievement_id = ? AND progress >= ? AND unlocked_at IS NULL",
			userID, achievementID, target).
		Update("unlocked_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *progressRepository) Get(ctx context.Context, userID, achievementID uint) (*models.UserAchievementProgress, error) {
	var row models.UserAchievementProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserAchievementProgress, error) {
	var rows []models.UserAchievementProgress
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
