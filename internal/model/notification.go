package model

import "time"

// TopicAll is the global topic every device subscribes to. Its membership is
// implicitly "all users" and never managed through the explicit member list.
const TopicAll = "ALL"

// SystemTopics lists the topic names reserved by the system.
var SystemTopics = []string{TopicAll}

type Topic struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text;default:''" json:"description"`
	Deleteable  bool   `json:"deleteable"`

	Users     []User     `gorm:"many2many:users_topics;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Templates []Template `gorm:"many2many:templates_topics;constraint:OnDelete:CASCADE" json:"templates,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// IsSystem reports whether the topic name is reserved.
func (t *Topic) IsSystem() bool {
	for _, name := range SystemTopics {
		if t.Name == name {
			return true
		}
	}
	return false
}

type TemplateType string

const (
	TemplateTypeUser  TemplateType = "USER"
	TemplateTypeTopic TemplateType = "TOPIC"
)

type Template struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	Title   string       `gorm:"size:255;not null" json:"title"`
	Content string       `gorm:"type:text;default:''" json:"content"`
	Type    TemplateType `gorm:"size:10;not null" json:"type"`

	Users  []User  `gorm:"many2many:users_templates;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Topics []Topic `gorm:"many2many:templates_topics;constraint:OnDelete:CASCADE" json:"topics,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;default:''" json:"content"`
	IsRead  bool   `json:"is_read"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Device is an FCM registration token owned by a user, created on
// login/register and removed on logout.
type Device struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FcmToken string `gorm:"size:512;not null;index" json:"fcm_token"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
