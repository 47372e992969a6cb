package realtime

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/models"
)

// ConversationStore is the durable side of message delivery. The hub only
// needs resolve-or-create and append; everything else about persistence is
// someone else's problem.
type ConversationStore interface {
	GetOrCreateConversation(senderID, receiverID uuid.UUID) (*models.Conversation, error)
	AppendMessage(conversationID, senderID, receiverID uuid.UUID, content string) (*models.Message, error)
}

// Hub fans events out to rooms. It owns no persistent state: the registry
// holds the live sessions, the store holds the durable messages. Constructed
// once at process start and injected wherever connections are handled.
type Hub struct {
	registry *Registry
	store    ConversationStore
}

func NewHub(registry *Registry, store ConversationStore) *Hub {
	return &Hub{registry: registry, store: store}
}

func (h *Hub) Registry() *Registry { return h.registry }

// Join adds the session to its user's room. The first session for a user
// broadcasts user:online to everyone connected.
func (h *Hub) Join(s *Session) {
	if h.registry.Join(s.UserID, s) {
		h.broadcast(Event{Type: EventUserOnline, UserID: s.UserID})
	}
}

// Leave removes the session. Removing the last session for a user
// broadcasts user:offline and reports the transition with its timestamp so
// the caller can persist a durable last-seen.
func (h *Hub) Leave(s *Session) (wentOffline bool, at time.Time) {
	last, seen := h.registry.Leave(s.UserID, s)
	if last {
		h.broadcast(Event{Type: EventUserOffline, UserID: s.UserID, LastSeen: &seen})
	}
	return last, seen
}

// SendMessage persists a message and fans it out: message:received to every
// session in the receiver's room, message:sent echoed to the sender's room.
// Persistence failures abort the send and are returned; delivery failures
// are swallowed — the message is already durable and retrievable later.
func (h *Hub) SendMessage(senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	conv, err := h.store.GetOrCreateConversation(senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg, err := h.store.AppendMessage(conv.ID, senderID, receiverID, content)
	if err != nil {
		return nil, err
	}

	body := &MessageBody{
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
	h.deliver(receiverID, Event{Type: EventMessageReceived, Message: body})
	h.deliver(senderID, Event{Type: EventMessageSent, Message: body})
	return msg, nil
}

// deliver enqueues to every session in one user's room. A receiver with no
// live sessions is not an error.
func (h *Hub) deliver(userID uuid.UUID, ev Event) {
	for _, s := range h.registry.Room(userID) {
		if err := s.Enqueue(ev); err != nil {
			log.Printf("dropping %s event for closed session %s", ev.Type, s.ID)
		}
	}
}

// broadcast enqueues to every live session (presence events are global).
func (h *Hub) broadcast(ev Event) {
	for _, s := range h.registry.Sessions() {
		if err := s.Enqueue(ev); err != nil {
			log.Printf("dropping %s event for closed session %s", ev.Type, s.ID)
		}
	}
}
