// repository/metrics.go - read-only aggregate metric queries
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"goaltrack/models"
)

// MetricsRepository answers the absolute metric questions the event mapper
// asks ("how many goals has this user completed right now"). Every value is
// recomputed from the source rows on each call; nothing here is incrementally
// maintained, so the numbers cannot drift from ground truth.
type MetricsRepository interface {
	TotalGoalsCreated(ctx context.Context, userID uint) (int, error)
	TotalGoalsCompleted(ctx context.Context, userID uint) (int, error)
	GoalsCompletedBetween(ctx context.Context, userID uint, from, to time.Time) (int, error)
	GoalsCompletedBeforeTarget(ctx context.Context, userID uint) (int, error)
	EarlyMorningCompletions(ctx context.Context, userID uint) (int, error)
	LateNightCompletions(ctx context.Context, userID uint) (int, error)
	DistinctCompletedCategories(ctx context.Context, userID uint) (int, error)
	ActiveCategories(ctx context.Context, userID uint) (int, error)
	MilestonesCompleted(ctx context.Context, userID uint) (int, error)
	NotesAuthored(ctx context.Context, userID uint) (int, error)
	CheckInsLogged(ctx context.Context, userID uint) (int, error)
	PostsCreated(ctx context.Context, userID uint) (int, error)
	LikesReceived(ctx context.Context, userID uint) (int, error)
	CommentsWritten(ctx context.Context, userID uint) (int, error)
	UsageCount(ctx context.Context, userID uint, kind string) (int, error)
	WeekendGoalCreations(ctx context.Context, userID uint) (int, error)
}

type metricsRepository struct {
	db *gorm.DB
}

func NewMetricsRepository(db *gorm.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) count(ctx context.Context, model interface{}, query string, args ...interface{}) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error
	return int(n), err
}

func (r *metricsRepository) TotalGoalsCreated(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Goal{}, "user_id = ?", userID)
}

func (r *metricsRepository) TotalGoalsCompleted(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Goal{}, "user_id = ? AND completed_at IS NOT NULL", userID)
}

func (r *metricsRepository) GoalsCompletedBetween(ctx context.Context, userID uint, from, to time.Time) (int, error) {
	return r.count(ctx, &models.Goal{},
		"user_id = ? AND completed_at >= ? AND completed_at < ?", userID, from, to)
}

func (r *metricsRepository) GoalsCompletedBeforeTarget(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Goal{},
		"user_id = ? AND completed_at IS NOT NULL AND target_date IS NOT NULL AND completed_at < target_date",
		userID)
}

// completionHours plucks completion timestamps so hour-of-day checks can run
// in Go. Hours are taken from the server wall clock with no timezone
// normalization, matching how completions are stamped.
func (r *metricsRepository) completionHours(ctx context.Context, userID uint) ([]int, error) {
	var stamps []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Pluck("completed_at", &stamps).Error; err != nil {
		return nil, err
	}
	hours := make([]int, len(stamps))
	for i, ts := range stamps {
		hours[i] = ts.Hour()
	}
	return hours, nil
}

func (r *metricsRepository) EarlyMorningCompletions(ctx context.Context, userID uint) (int, error) {
	hours, err := r.completionHours(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range hours {
		if h < 8 {
			n++
		}
	}
	return n, nil
}

func (r *metricsRepository) LateNightCompletions(ctx context.Context, userID uint) (int, error) {
	hours, err := r.completionHours(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range hours {
		if h >= 22 {
			n++
		}
	}
	return n, nil
}

func (r *metricsRepository) DistinctCompletedCategories(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ? AND completed_at IS NOT NULL AND category <> ''", userID).
		Distinct("category").
		Count(&n).Error
	return int(n), err
}

func (r *metricsRepository) ActiveCategories(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ? AND completed_at IS NULL AND category <> ''", userID).
		Distinct("category").
		Count(&n).Error
	return int(n), err
}

func (r *metricsRepository) MilestonesCompleted(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Milestone{}, "user_id = ? AND completed_at IS NOT NULL", userID)
}

func (r *metricsRepository) NotesAuthored(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Note{}, "user_id = ?", userID)
}

func (r *metricsRepository) CheckInsLogged(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.CheckIn{}, "user_id = ?", userID)
}

func (r *metricsRepository) PostsCreated(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Post{}, "user_id = ?", userID)
}

func (r *metricsRepository) LikesReceived(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.user_id = ? AND post_likes.user_id <> ?", userID, userID).
		Count(&n).Error
	return int(n), err
}

func (r *metricsRepository) CommentsWritten(ctx context.Context, userID uint) (int, error) {
	return r.count(ctx, &models.Comment{}, "user_id = ?", userID)
}

func (r *metricsRepository) UsageCount(ctx context.Context, userID uint, kind string) (int, error) {
	return r.count(ctx, &models.UsageEvent{}, "user_id = ? AND kind = ?", userID, kind)
}

// WeekendGoalCreations counts goals created on a Saturday or Sunday. Goal
// creation timestamps stand in for true login events here; the day-of-week
// check runs in Go to keep the query portable across drivers.
func (r *metricsRepository) WeekendGoalCreations(ctx context.Context, userID uint) (int, error) {
	var stamps []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ?", userID).
		Pluck("created_at", &stamps).Error; err != nil {
		return 0, err
	}
	n := 0
	for _, ts := range stamps {
		switch ts.UTC().Weekday() {
		case time.Saturday, time.Sunday:
			n++
		}
	}
	return n, nil
}
