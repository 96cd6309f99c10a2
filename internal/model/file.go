package model

import "time"

type File struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	URL          string `gorm:"type:text;not null" json:"url"`
	Size         int64  `json:"size"`
	UploadedByID *uint  `json:"uploaded_by_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
