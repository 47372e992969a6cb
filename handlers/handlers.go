package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
)

var validate = validator.New()

// currentUserID pulls the authenticated user id out of the JWT that the
// Protected middleware stored on the context.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

// fail renders a service-layer error with the status its taxonomy code maps
// to.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
