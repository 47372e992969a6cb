package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/handlers"
	"github.com/okothbrian/socialite/middleware"
	"github.com/okothbrian/socialite/services"
)

func AdminRoutes(app *fiber.App, notifs *services.NotificationService) {
	api := app.Group("/api/v1")

	reports := api.Group("/reports", middleware.Protected())
	reports.Post("", handlers.CreateReport)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/users", handlers.ListUsers)
	admin.Patch("/users/:userId/status", handlers.UpdateUserStatus)
	admin.Get("/reports", handlers.ListReports)
	admin.Patch("/reports/:reportId", handlers.UpdateReport(notifs))
	admin.Get("/reports/stream", handlers.ReportStream())
	admin.Get("/audit-logs", handlers.ListAuditLogs)
	admin.Get("/audit-logs/stream", handlers.AuditLogStream())
}
