package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/realtime"
)

func GetMe(c *fiber.Ctx) error {
	var user models.User
	if err := database.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

func UpdateMe(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(user)
}

// GetUserProfile is the public view of a user, including live presence from
// the registry. The durable last-seen column fills in after a restart, when
// in-memory presence has been wiped.
func GetUserProfile(registry *realtime.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}

		online := registry.IsOnline(user.ID)
		var lastSeen *time.Time
		if !online {
			if seen, ok := registry.LastSeen(user.ID); ok {
				lastSeen = &seen
			} else {
				lastSeen = user.LastSeenAt
			}
		}

		return c.JSON(fiber.Map{
			"id":         user.ID,
			"handle":     user.Handle,
			"full_name":  user.FullName,
			"bio":        user.Bio,
			"avatar_url": user.AvatarURL,
			"online":     online,
			"last_seen":  lastSeen,
			"created_at": user.CreatedAt,
		})
	}
}
