package handlers

import (
	"errors"
	"log"

	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps the service error taxonomy onto HTTP responses.
// Unrecognized errors are logged and reported as a generic 500 so internal
// details never leak to clients.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	case errors.Is(err, services.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// callerID returns the authenticated user's id from the request locals.
// Empty for anonymous callers on optional-auth routes.
func callerID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// recordMutation records a store mutation metric if metrics are initialized
func recordMutation(entity, op string) {
	if m := services.GetMetrics(); m != nil {
		m.RecordMutation(entity, op)
	}
}
