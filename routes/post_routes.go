package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/handlers"
	"github.com/okothbrian/socialite/middleware"
	"github.com/okothbrian/socialite/services"
)

func PostRoutes(app *fiber.App, notifs *services.NotificationService) {
	api := app.Group("/api/v1")

	posts := api.Group("/posts", middleware.Protected())
	posts.Get("", handlers.GetFeed)
	posts.Post("", handlers.CreatePost)
	posts.Get("/:postId", handlers.GetPost)
	posts.Delete("/:postId", handlers.DeletePost)
	posts.Post("/:postId/comments", handlers.CreateComment(notifs))
	posts.Post("/:postId/likes", handlers.LikePost(notifs))
	posts.Delete("/:postId/likes", handlers.UnlikePost)
}
