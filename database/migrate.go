// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"goaltrack/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	// Core application models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Milestone{},
		&models.Note{},
		&models.CheckIn{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.UsageEvent{},
	); err != nil {
		log.Fatalf("❌ Failed to run core migrations: %v", err)
	}

	// Engagement engine models
	if err := db.AutoMigrate(
		&models.Achievement{},
		&models.UserAchievementProgress{},
		&models.DailyActivity{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ Failed to run engagement migrations: %v", err)
	}

	createCoreIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createCoreIndexes creates indexes the aggregate metric queries and
// leaderboards lean on.
func createCoreIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_current_streak ON users(current_streak DESC)")

	// Goal indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_goals_user_completed ON goals(user_id, completed_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_goals_category ON goals(category)")

	// Milestone / note / check-in indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_milestones_user ON milestones(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_check_ins_user ON check_ins(user_id)")

	// Community indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_usage_events_user_kind ON usage_events(user_id, kind)")

	// Engagement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievements_key ON achievements(key)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_progress_user ON user_achievement_progress(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_daily_activities_user_date ON daily_activities(user_id, activity_date DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read)")
}
