package model

import "time"

type Faq struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;default:''" json:"content"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
