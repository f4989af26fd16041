// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	Timezone    string  `gorm:"default:'UTC'" json:"timezone"`

	// Engagement projections. Both are derived caches over the activity
	// ledger: always re-derivable, overwritten on recompute, last write wins.
	CurrentStreak int `gorm:"default:0" json:"current_streak"`
	LongestStreak int `gorm:"default:0" json:"longest_streak"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Progress []UserAchievementProgress `gorm:"foreignKey:UserID" json:"progress,omitempty"`
	Goals    []Goal                    `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
