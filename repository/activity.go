// repository/activity.go - Activity Ledger store
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goaltrack/models"
)

// ActivityRepository is the per-day activity ledger plus the cached streak
// projections on the user row. Ledger rows are append-only: a day is created on
// first activity and afterwards only ever gains new type tags.
type ActivityRepository interface {
	UpsertDay(ctx context.Context, userID uint, date, activityType string) error
	DatesDesc(ctx context.Context, userID uint) ([]string, error)
	DatesAsc(ctx context.Context, userID uint) ([]string, error)
	Day(ctx context.Context, userID uint, date string) (*models.DailyActivity, error)
	SetCurrentStreak(ctx context.Context, userID uint, streak int) error
	SetLongestStreak(ctx context.Context, userID uint, streak int) error
	StreakLeaderboard(ctx context.Context, limit int) ([]models.User, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// UpsertDay records an activity type against a calendar day. The first
// activity of the day inserts the row; any later one unions its tag into the
// existing row. Recording the same type twice is a no-op.
func (r *activityRepository) UpsertDay(ctx context.Context, userID uint, date, activityType string) error {
	row := models.DailyActivity{
		UserID:        userID,
		ActivityDate:  date,
		ActivityTypes: activityType,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return err
	}

	// The union is one conditional statement: append the tag unless the
	// stored set already contains it. Concurrent different-type events on the
	// same day cannot overwrite each other's append.
	return r.db.WithContext(ctx).
		Model(&models.DailyActivity{}).
		Where("user_id = ? AND activity_date = ?", userID, date).
		Where("',' || activity_types || ',' NOT LIKE '%,' || ? || ',%'", activityType).
		Update("activity_types", gorm.Expr("activity_types || ',' || ?", activityType)).Error
}

func (r *activityRepository) DatesDesc(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.DailyActivity{}).
		Where("user_id = ?", userID).
		Order("activity_date DESC").
		Pluck("activity_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *activityRepository) DatesAsc(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.DailyActivity{}).
		Where("user_id = ?", userID).
		Order("activity_date ASC").
		Pluck("activity_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *activityRepository) Day(ctx context.Context, userID uint, date string) (*models.DailyActivity, error) {
	var day models.DailyActivity
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND activity_date = ?", userID, date).
		First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

// SetCurrentStreak overwrites the cached projection on the user row. The value
// is always re-derivable from the ledger; last write wins.
func (r *activityRepository) SetCurrentStreak(ctx context.Context, userID uint, streak int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("current_streak", streak).Error
}

func (r *activityRepository) SetLongestStreak(ctx context.Context, userID uint, streak int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("longest_streak", streak).Error
}

func (r *activityRepository) StreakLeaderboard(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("current_streak > 0").
		Order("current_streak DESC, longest_streak DESC, id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
