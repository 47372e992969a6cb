package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Handle   string    `gorm:"size:32;not null;unique" json:"handle"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`

	Bio       *string `gorm:"type:text" json:"bio"`
	AvatarURL *string `gorm:"size:255" json:"avatar_url"`

	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
