package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/handlers"
	"github.com/okothbrian/socialite/middleware"
	"github.com/okothbrian/socialite/realtime"
	"github.com/okothbrian/socialite/services"
)

func MessagingRoutes(app *fiber.App, hub *realtime.Hub, chat *services.ChatService, notifs *services.NotificationService) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", handlers.GetUserConversations(chat))
	conversations.Post("", handlers.CreateOrGetConversation(chat))
	conversations.Get("/:conversationId/messages", handlers.GetConversationMessages(chat))

	api.Post("/messages", middleware.Protected(), handlers.SendMessage(hub, notifs))

	// The socket authenticates with its first frame, not a header, so the
	// upgrade gate is the only HTTP-level check.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs(hub, notifs)))
}
