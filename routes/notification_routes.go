package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/handlers"
	"github.com/okothbrian/socialite/middleware"
	"github.com/okothbrian/socialite/services"
)

func NotificationRoutes(app *fiber.App, notifs *services.NotificationService) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.ListNotifications(notifs))
	notifications.Post("/read", handlers.MarkNotificationsRead(notifs))
	notifications.Get("/stream", handlers.NotificationStream(notifs))
}
