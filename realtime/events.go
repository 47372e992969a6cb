package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
)

// EventType tags the closed set of server-to-client events.
type EventType string

const (
	EventUserOnline      EventType = "user:online"
	EventUserOffline     EventType = "user:offline"
	EventMessageReceived EventType = "message:received"
	EventMessageSent     EventType = "message:sent"
)

// MessageBody carries a delivered or echoed chat message.
type MessageBody struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	ReceiverID     uuid.UUID `json:"receiver_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Event is one tagged server-to-client frame. Presence events carry UserID
// (and LastSeen for offline); message events carry Message.
type Event struct {
	Type     EventType    `json:"type"`
	UserID   uuid.UUID    `json:"user_id,omitempty"`
	LastSeen *time.Time   `json:"last_seen,omitempty"`
	Message  *MessageBody `json:"message,omitempty"`
}

// Client frame types. Unknown types are ignored by the socket loop.
const (
	FrameAuth    = "auth"
	FrameJoin    = "join"
	FrameLeave   = "leave"
	FrameMessage = "message"
)

// ClientFrame is one client-to-server frame, validated at the connection
// boundary before it reaches the hub.
type ClientFrame struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

// Validate checks the fields required for the frame's type.
func (f *ClientFrame) Validate() error {
	switch f.Type {
	case FrameAuth:
		if f.Token == "" {
			return apperrors.InvalidArg("auth frame requires a token")
		}
	case FrameMessage:
		if _, err := uuid.Parse(f.ReceiverID); err != nil {
			return apperrors.InvalidArg("message frame requires a valid receiver_id")
		}
		if f.Content == "" {
			return apperrors.InvalidArg("message frame requires content")
		}
	case FrameJoin, FrameLeave:
		// No payload.
	default:
		return apperrors.InvalidArg("unknown frame type: " + f.Type)
	}
	return nil
}
