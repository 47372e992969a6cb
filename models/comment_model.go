package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body     string    `gorm:"type:text;not null" json:"body"`

	Author User `gorm:"foreignkey:AuthorID" json:"author"`

	CreatedAt time.Time `json:"created_at"`
}

// Like is one user's like on one post; the pair index makes it idempotent.
type Like struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_like_pair,priority:1" json:"post_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_like_pair,priority:2" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}
