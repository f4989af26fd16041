// models/activity.go
package models

import (
	"strings"
	"time"
)

// DateLayout is the canonical calendar-day format used by the activity ledger.
const DateLayout = "2006-01-02"

// NormalizeDate trims a ledger date to its calendar day. A native date column
// can come back from the driver as a full timestamp string; only the
// YYYY-MM-DD prefix is the ledger key.
func NormalizeDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// DailyActivity is one ledger row: which activity types a user performed on one
// calendar day. One row per (user, date); repeated activity on the same day only
// unions new type tags into the row.
type DailyActivity struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_user_activity_date" json:"user_id"`
	// Stored as a plain YYYY-MM-DD string, not a native date column: the
	// streak math keys on the string, and date columns decode into
	// driver-dependent timestamp shapes.
	ActivityDate string `gorm:"type:varchar(10);not null;uniqueIndex:idx_user_activity_date" json:"activity_date"`

	// Comma-joined tag set, e.g. "login,goal_completed,note_written".
	ActivityTypes string `gorm:"not null" json:"activity_types"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}

// Types returns the tag set as a slice.
func (d *DailyActivity) Types() []string {
	if d.ActivityTypes == "" {
		return nil
	}
	return strings.Split(d.ActivityTypes, ",")
}

// HasType reports whether the day already carries the given tag.
func (d *DailyActivity) HasType(activityType string) bool {
	for _, t := range d.Types() {
		if t == activityType {
			return true
		}
	}
	return false
}
