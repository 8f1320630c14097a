package services

import (
	"errors"

	"chess-tournament-system/models"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps the lifecycle error taxonomy onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrAuthenticationRequired):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrAuthorizationDenied):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidMove):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

// currentUserID reads the user id set by the gateway user-context
// middleware. Empty means the request carried no identity.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
