package services

import (
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
	"github.com/okothbrian/socialite/models"
	"gorm.io/gorm"
)

// NotificationService creates and reads per-user notifications. The unread
// count feeds the SSE badge channel.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(userID uuid.UUID, notifType, body string) error {
	n := models.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Type:   notifType,
		Body:   body,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return apperrors.PersistenceFailure("failed to create notification", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.PersistenceFailure("failed to count notifications", err)
	}
	return count, nil
}

func (s *NotificationService) List(userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.PersistenceFailure("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkAllRead flips every unread notification for the user. Idempotent.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperrors.PersistenceFailure("failed to mark notifications read", err)
	}
	return nil
}
