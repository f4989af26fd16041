// models/achievement.go
package models

import "time"

// Achievement is an immutable catalog row. Rows are seeded at startup from the
// static catalog; re-seeding inserts missing keys and never overwrites the
// reward fields of an existing row.
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Key         string `gorm:"not null;uniqueIndex" json:"key"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Icon        string `json:"icon"`
	Category    string `gorm:"not null;index" json:"category"` // Goals, Timing, Milestones, Notes, Streak, Social, Special
	TargetValue int    `gorm:"not null" json:"target_value"`
	Tier        string `gorm:"not null" json:"tier"` // bronze, silver, gold, diamond, legendary
	Points      int    `gorm:"default:0" json:"points"`
	Rarity      string `json:"rarity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAchievementProgress tracks one user's progress toward one achievement.
// Progress is monotonically non-decreasing and capped at the catalog target;
// UnlockedAt is set exactly once, when progress first reaches the target.
type UserAchievementProgress struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint       `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Progress      int        `gorm:"default:0" json:"progress"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievementProgress) TableName() string {
	return "user_achievement_progress"
}
