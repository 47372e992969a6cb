package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	ReceiverID     uuid.UUID `gorm:"type:uuid;not null" json:"receiver_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`

	// Read transitions false -> true exactly once, when the receiver opens
	// the conversation. Never reset.
	Read bool `gorm:"not null;default:false" json:"read"`

	Sender       User         `gorm:"foreignkey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignkey:ConversationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
