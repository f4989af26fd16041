// models/goal.go - Goal domain rows consumed read-only by the metric queries
package models

import "time"

// Goal represents a user goal. The engagement engine never mutates goals; it
// only runs aggregate counts over them.
type Goal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string     `gorm:"not null;size:200" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:50;index" json:"category"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Milestones []Milestone `gorm:"foreignKey:GoalID" json:"milestones,omitempty"`
}

// Milestone is a sub-step of a goal.
type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GoalID      uint       `gorm:"not null;index" json:"goal_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"not null;size:200" json:"title"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Note is a journal entry attached to a goal.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GoalID    *uint     `gorm:"index" json:"goal_id,omitempty"`
	Body      string    `gorm:"not null;type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckIn is a lightweight daily progress log against a goal.
type CheckIn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GoalID    uint      `gorm:"not null;index" json:"goal_id"`
	Mood      string    `gorm:"size:20" json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

func (Goal) TableName() string {
	return "goals"
}

func (Milestone) TableName() string {
	return "milestones"
}

func (Note) TableName() string {
	return "notes"
}

func (CheckIn) TableName() string {
	return "check_ins"
}
