package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/notifications"
)

// SendUnreadDigests emails users who have messages sitting unread for more
// than an hour. Only sends while the recipient has been away, so an active
// user never gets nagged.
func SendUnreadDigests() {
	log.Println("Running job: SendUnreadDigests...")

	cutoff := time.Now().Add(-1 * time.Hour)

	type digestRow struct {
		ReceiverID string
		Unread     int64
	}
	var rows []digestRow
	err := database.DB.Model(&models.Message{}).
		Select("receiver_id, count(*) as unread").
		Where("read = ? AND created_at < ?", false, cutoff).
		Group("receiver_id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error checking for unread messages: %v", err)
		return
	}

	if len(rows) == 0 {
		return
	}

	for _, row := range rows {
		var user models.User
		if err := database.DB.First(&user, "id = ?", row.ReceiverID).Error; err != nil {
			log.Printf("Error loading digest recipient %s: %v", row.ReceiverID, err)
			continue
		}
		if user.LastSeenAt != nil && user.LastSeenAt.After(cutoff) {
			continue
		}

		emailSubject := "You have unread messages waiting"
		emailBody := fmt.Sprintf(
			"<h1>Unread Messages</h1><p>Hi %s,</p><p>You have %d unread message(s) waiting for you. Log in to catch up on your conversations.</p>",
			user.FullName,
			row.Unread,
		)
		go notifications.SendEmail(user.FullName, user.Email, emailSubject, emailBody)
	}
}
