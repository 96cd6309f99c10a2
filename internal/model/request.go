package model

import "time"

// Request is a tracked work item assigned to a user.
type Request struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text;default:''" json:"description"`
	Deadline    time.Time `json:"deadline"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
