package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goaltrack/models"
)

// newTestDB opens a named in-memory database so every test gets an isolated
// schema while gorm's connection pool still sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Milestone{},
		&models.Note{},
		&models.CheckIn{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.UsageEvent{},
		&models.Achievement{},
		&models.UserAchievementProgress{},
		&models.DailyActivity{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createAchievement(t *testing.T, db *gorm.DB, key string, target int) models.Achievement {
	t.Helper()
	a := models.Achievement{
		Key:         key,
		Title:       key,
		Description: key,
		Category:    "Goals",
		TargetValue: target,
		Tier:        "bronze",
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}
