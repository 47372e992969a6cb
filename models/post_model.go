package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Body     string    `gorm:"type:text;not null" json:"body"`
	ImageURL *string   `gorm:"size:255" json:"image_url"`

	Author   User      `gorm:"foreignkey:AuthorID" json:"author"`
	Comments []Comment `json:"comments,omitempty"`
	Likes    []Like    `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
