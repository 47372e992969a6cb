package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/okothbrian/socialite/configs"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/realtime"
	"github.com/okothbrian/socialite/services"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GetUserConversations(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summaries, err := chat.ListConversations(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(summaries)
	}
}

func CreateOrGetConversation(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type Request struct {
			RecipientID string `json:"recipient_id" validate:"required,uuid"`
		}
		var req Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		recipientID, _ := uuid.Parse(req.RecipientID)

		conv, err := chat.GetOrCreateConversation(currentUserID(c), recipientID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(conv)
	}
}

func GetConversationMessages(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conversationID, err := uuid.Parse(c.Params("conversationId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
		}

		messages, err := chat.Messages(conversationID, currentUserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(messages)
	}
}

// SendMessage is the HTTP fallback for clients without a socket. It goes
// through the same hub path, so connected receivers still get the realtime
// event.
func SendMessage(hub *realtime.Hub, notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type Request struct {
			ReceiverID string `json:"receiver_id" validate:"required,uuid"`
			Content    string `json:"content" validate:"required,max=4000"`
		}
		var req Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		receiverID, _ := uuid.Parse(req.ReceiverID)
		senderID := currentUserID(c)

		msg, err := hub.SendMessage(senderID, receiverID, req.Content)
		if err != nil {
			return fail(c, err)
		}
		notifyNewMessage(notifs, senderID, receiverID)
		return c.Status(fiber.StatusCreated).JSON(msg)
	}
}

// ServeWs runs the socket protocol: one auth frame, then join/leave/message
// frames until the client goes away. Cleanup always leaves the room and, on
// an offline transition, persists a durable last-seen.
func ServeWs(hub *realtime.Hub, notifs *services.NotificationService) func(*websocketcontrib.Conn) {
	return func(c *websocketcontrib.Conn) {
		var authFrame realtime.ClientFrame
		if err := c.ReadJSON(&authFrame); err != nil || authFrame.Type != realtime.FrameAuth {
			_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth frame"})
			c.Close()
			return
		}
		if err := authFrame.Validate(); err != nil {
			_ = c.WriteJSON(fiber.Map{"error": err.Error()})
			c.Close()
			return
		}

		claims, err := parseToken(authFrame.Token)
		if err != nil {
			log.Printf("WebSocket auth failed: %v", err)
			_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
			c.Close()
			return
		}
		userID, err := uuid.Parse(claims["user_id"].(string))
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
			c.Close()
			return
		}

		session := realtime.NewSession(userID, c)
		go session.WritePump()
		defer func() {
			if wentOffline, at := hub.Leave(session); wentOffline {
				persistLastSeen(userID, at)
			}
			session.Close()
			c.Close()
		}()

		for {
			var frame realtime.ClientFrame
			if err := c.ReadJSON(&frame); err != nil {
				if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
					log.Printf("WebSocket closed for client %s: %v", userID, err)
				} else {
					log.Printf("WebSocket read error for client %s: %v", userID, err)
				}
				return
			}

			if err := frame.Validate(); err != nil {
				_ = c.WriteJSON(fiber.Map{"error": err.Error()})
				continue
			}

			switch frame.Type {
			case realtime.FrameJoin:
				hub.Join(session)
			case realtime.FrameLeave:
				if wentOffline, at := hub.Leave(session); wentOffline {
					persistLastSeen(userID, at)
				}
			case realtime.FrameMessage:
				receiverID, _ := uuid.Parse(frame.ReceiverID)
				if _, err := hub.SendMessage(userID, receiverID, frame.Content); err != nil {
					log.Printf("Failed to send message for client %s: %v", userID, err)
					_ = c.WriteJSON(fiber.Map{"error": "Failed to send message"})
					continue
				}
				notifyNewMessage(notifs, userID, receiverID)
			}
		}
	}
}

func notifyNewMessage(notifs *services.NotificationService, senderID, receiverID uuid.UUID) {
	var sender models.User
	if err := database.DB.Select("handle").First(&sender, "id = ?", senderID).Error; err != nil {
		log.Printf("Failed to load sender %s for notification: %v", senderID, err)
		return
	}
	body := fmt.Sprintf("New message from @%s", sender.Handle)
	if err := notifs.Create(receiverID, models.NotificationTypeMessage, body); err != nil {
		log.Printf("Failed to create message notification: %v", err)
	}
}

func persistLastSeen(userID uuid.UUID, at time.Time) {
	err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", at).Error
	if err != nil {
		log.Printf("Failed to persist last seen for %s: %v", userID, err)
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
