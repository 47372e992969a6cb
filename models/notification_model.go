package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeMessage    = "message"
	NotificationTypeComment    = "comment"
	NotificationTypeLike       = "like"
	NotificationTypeModeration = "moderation"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   string    `gorm:"size:30;not null" json:"type"`
	Body   string    `gorm:"type:text;not null" json:"body"`
	Read   bool      `gorm:"not null;default:false" json:"read"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
