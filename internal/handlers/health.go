package handlers

import (
	"time"

	"todoflow/internal/database"
	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db    *database.MongoDB
	redis *services.RedisService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.MongoDB, redis *services.RedisService) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Handle responds with server health status. MongoDB failures flip the
// overall status to degraded; Redis is optional and only reported.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := "healthy"

	mongoStatus := "connected"
	if err := h.db.Ping(c.Context()); err != nil {
		mongoStatus = "disconnected"
		status = "degraded"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(c.Context()); err != nil {
			redisStatus = "disconnected"
		}
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"mongodb":   mongoStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
