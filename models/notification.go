// models/notification.go
package models

import "time"

// Notification is an append-only unlock announcement. The engine never
// deduplicates here; the one-time unlocked_at transition on the progress row is
// what prevents duplicate emission.
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"not null" json:"message"`
	Icon    string `json:"icon"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
