package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a direct-message thread between exactly two users. The pair
// is stored normalized (UserOneID < UserTwoID lexically) under a composite
// unique index, so two concurrent "start chat" requests for the same pair
// collapse to a single row at the database level.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserOneID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_conversation_pair,priority:1" json:"user_one_id"`
	UserTwoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_conversation_pair,priority:2" json:"user_two_id"`

	UserOne  User      `gorm:"foreignkey:UserOneID" json:"-"`
	UserTwo  User      `gorm:"foreignkey:UserTwoID" json:"-"`
	Messages []Message `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizePair orders two user ids into the canonical storage order.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.UserOneID == userID {
		return c.UserTwoID
	}
	return c.UserOneID
}

// HasParticipant reports whether the user belongs to this conversation.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.UserOneID == userID || c.UserTwoID == userID
}
