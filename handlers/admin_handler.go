package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/notifications"
)

// writeAudit appends an admin action to the append-only audit log. Audit
// failures are logged but never fail the action itself.
func writeAudit(adminID uuid.UUID, action, targetType string, targetID uuid.UUID, detail string) {
	entry := models.AuditLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write audit log entry (%s on %s %s): %v", action, targetType, targetID, err)
	}
}

func ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	query := database.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("handle ILIKE ? OR full_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	err := query.
		Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{"users": users, "total": total, "page": page})
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UpdateUserStatus activates or deactivates an account. Deactivated users
// cannot log in; their content stays up.
func UpdateUserStatus(c *fiber.Ctx) error {
	var req UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	adminID := currentUserID(c)
	if user.ID == adminID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot change your own status"})
	}

	user.IsActive = *req.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	action, verb := "user.deactivate", "deactivated"
	if user.IsActive {
		action, verb = "user.activate", "reactivated"
	}
	writeAudit(adminID, action, "user", user.ID, fmt.Sprintf("account @%s %s", user.Handle, verb))

	go notifications.SendEmail(
		user.FullName,
		user.Email,
		fmt.Sprintf("Your account has been %s", verb),
		fmt.Sprintf("<p>Hi %s,</p><p>Your account has been %s by an administrator.</p>", user.FullName, verb),
	)

	return c.JSON(user)
}

func ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))

	var total int64
	database.DB.Model(&models.AuditLog{}).Count(&total)

	var entries []models.AuditLog
	err := database.DB.
		Preload("Admin").
		Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}

	return c.JSON(fiber.Map{"entries": entries, "total": total, "page": page})
}
