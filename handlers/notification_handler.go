package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/services"
)

func ListNotifications(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

		list, err := notifs.List(currentUserID(c), pageSize, (page-1)*pageSize)
		if err != nil {
			return fail(c, err)
		}

		count, err := notifs.UnreadCount(currentUserID(c))
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{"notifications": list, "unread_count": count})
	}
}

func MarkNotificationsRead(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := notifs.MarkAllRead(currentUserID(c)); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "Notifications marked read"})
	}
}
