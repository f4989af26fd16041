// models/social.go - Community rows consumed read-only by the metric queries
package models

import "time"

// Post is a community feed entry.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GoalID    *uint     `gorm:"index" json:"goal_id,omitempty"`
	Body      string    `gorm:"not null;type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLike records one user liking one post.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply on a community post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Body      string    `gorm:"not null;type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageEvent records a use of an auxiliary feature (AI helper, data export).
type UsageEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Kind      string    `gorm:"not null;size:50;index" json:"kind"` // ai_generation, export
	CreatedAt time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (Comment) TableName() string {
	return "comments"
}

func (UsageEvent) TableName() string {
	return "usage_events"
}
