package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/handlers"
	"github.com/okothbrian/socialite/middleware"
	"github.com/okothbrian/socialite/realtime"
)

func ProfileRoutes(app *fiber.App, registry *realtime.Registry) {
	api := app.Group("/api/v1")

	me := api.Group("/me", middleware.Protected())
	me.Get("", handlers.GetMe)
	me.Put("", handlers.UpdateMe)

	users := api.Group("/users", middleware.Protected())
	users.Get("/:userId", handlers.GetUserProfile(registry))
}
