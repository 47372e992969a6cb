package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
	"github.com/okothbrian/socialite/models"
	"gorm.io/gorm"
)

// SeedMessageContent is the system-generated first message of every new
// conversation, so a conversation with zero messages is never observable.
const SeedMessageContent = "Chat started"

// ChatService is the conversation store: resolution, appends, read marking
// and listing. It backs both the HTTP messaging endpoints and the realtime
// hub.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ConversationSummary is one row of a user's inbox listing.
type ConversationSummary struct {
	Conversation     models.Conversation `json:"conversation"`
	LastMessage      *models.Message     `json:"last_message"`
	OtherParticipant models.User         `json:"other_participant"`
	UnreadCount      int64               `json:"unread_count"`
}

// GetOrCreateConversation resolves the conversation between two users,
// creating and seeding it on first contact. Creation is idempotent under
// races: the unique index on the normalized pair collapses a concurrent
// create, and the loser re-finds the winner's row instead of erroring.
func (s *ChatService) GetOrCreateConversation(senderID, receiverID uuid.UUID) (*models.Conversation, error) {
	if senderID == receiverID {
		return nil, apperrors.ErrSelfConversation
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("id IN ?", []uuid.UUID{senderID, receiverID}).
		Count(&count).Error; err != nil {
		return nil, apperrors.PersistenceFailure("failed to look up participants", err)
	}
	if count != 2 {
		return nil, apperrors.ErrUserNotFound
	}

	one, two := models.NormalizePair(senderID, receiverID)

	var conv models.Conversation
	err := s.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.PersistenceFailure("failed to find conversation", err)
	}

	conv = models.Conversation{ID: uuid.New(), UserOneID: one, UserTwoID: two}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		seed := models.Message{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			SenderID:       senderID,
			ReceiverID:     receiverID,
			Content:        SeedMessageContent,
		}
		return tx.Create(&seed).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the create race; the existing row is the conversation.
			if err := s.db.Where("user_one_id = ? AND user_two_id = ?", one, two).First(&conv).Error; err != nil {
				return nil, apperrors.PersistenceFailure("failed to resolve conversation after create race", err)
			}
			return &conv, nil
		}
		return nil, apperrors.PersistenceFailure("failed to create conversation", err)
	}
	return &conv, nil
}

// AppendMessage persists one message (unread, timestamped by the store) and
// bumps the conversation's activity timestamp.
func (s *ChatService) AppendMessage(conversationID, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return nil, apperrors.PersistenceFailure("failed to append message", err)
	}
	return &msg, nil
}

// Messages returns a conversation's messages oldest-first for one of its
// participants. As a side effect of the read, every unread message addressed
// to the caller flips to read in a single bulk pass; re-reading is a no-op.
func (s *ChatService) Messages(conversationID, callerID uuid.UUID) ([]models.Message, error) {
	var conv models.Conversation
	if err := s.db.First(&conv, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.PersistenceFailure("failed to find conversation", err)
	}
	if !conv.HasParticipant(callerID) {
		return nil, apperrors.ErrNotParticipant
	}

	if err := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read = ?", conversationID, callerID, false).
		Update("read", true).Error; err != nil {
		return nil, apperrors.PersistenceFailure("failed to mark messages read", err)
	}

	var messages []models.Message
	if err := s.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return nil, apperrors.PersistenceFailure("failed to fetch messages", err)
	}
	return messages, nil
}

// ListConversations returns the user's inbox, most recently active first,
// each entry carrying the last message, the other participant and the
// caller's unread count.
func (s *ChatService) ListConversations(userID uuid.UUID) ([]ConversationSummary, error) {
	var conversations []models.Conversation
	if err := s.db.
		Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&conversations).Error; err != nil {
		return nil, apperrors.PersistenceFailure("failed to list conversations", err)
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		var last models.Message
		lastErr := s.db.
			Where("conversation_id = ?", conv.ID).
			Order("created_at desc").
			First(&last).Error

		var other models.User
		if err := s.db.First(&other, "id = ?", conv.OtherParticipant(userID)).Error; err != nil {
			return nil, apperrors.PersistenceFailure("failed to load participant", err)
		}

		var unread int64
		if err := s.db.Model(&models.Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND read = ?", conv.ID, userID, false).
			Count(&unread).Error; err != nil {
			return nil, apperrors.PersistenceFailure("failed to count unread messages", err)
		}

		summary := ConversationSummary{
			Conversation:     conv,
			OtherParticipant: other,
			UnreadCount:      unread,
		}
		if lastErr == nil {
			summary.LastMessage = &last
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
