package model

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName    string  `gorm:"size:100;default:''" json:"first_name"`
	LastName     string  `gorm:"size:100;default:''" json:"last_name"`
	Phone        string  `gorm:"size:20;default:''" json:"phone"`
	Password     string  `gorm:"size:255;default:''" json:"-"`
	RefreshToken string  `gorm:"size:512;default:''" json:"-"`
	IsActive     bool    `json:"is_active"`
	AvatarID     *uint   `json:"avatar_id,omitempty"`
	Avatar       *File   `gorm:"foreignKey:AvatarID" json:"avatar,omitempty"`
	GoogleID     string  `gorm:"size:100;default:''" json:"-"`
	FacebookID   string  `gorm:"size:100;default:''" json:"-"`

	Roles         []Role         `gorm:"many2many:users_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Topics        []Topic        `gorm:"many2many:users_topics;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
	Templates     []Template     `gorm:"many2many:users_templates;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Devices       []Device       `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
