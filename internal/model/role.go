package model

import "time"

// System role names. Seeded at startup with Deleteable=false; the admin role
// grants every capability and can never be deactivated.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// SystemRoles lists the role names reserved by the system.
var SystemRoles = []string{RoleAdmin, RoleUser}

type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text;default:''" json:"description"`
	IsActive    bool   `json:"is_active"`
	Deleteable  bool   `json:"deleteable"`

	Permissions []Permission `gorm:"constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:users_roles;constraint:OnDelete:CASCADE" json:"users,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// IsSystem reports whether name is one of the reserved system role names.
// Names are stored normalized, so plain comparison is enough.
func (r *Role) IsSystem() bool {
	for _, name := range SystemRoles {
		if r.Name == name {
			return true
		}
	}
	return false
}

type Permission struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string   `gorm:"type:text;default:''" json:"description"`
	RoleID      *uint    `json:"role_id"`
	Role        *Role    `json:"role,omitempty"`
	Apis        []string `gorm:"serializer:json" json:"apis"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
