package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pulsefeed/internal/database"
	"pulsefeed/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	mongo *database.MongoDB
	redis *services.RedisService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mongo *database.MongoDB, redis *services.RedisService) *HealthHandler {
	return &HealthHandler{mongo: mongo, redis: redis}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	mongoStatus := "healthy"
	if err := h.mongo.Ping(c.Context()); err != nil {
		mongoStatus = "unreachable"
	}

	redisStatus := "healthy"
	if err := h.redis.Ping(c.Context()); err != nil {
		redisStatus = "unreachable"
	}

	status := "healthy"
	httpStatus := fiber.StatusOK
	if mongoStatus != "healthy" || redisStatus != "healthy" {
		status = "degraded"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"mongodb":   mongoStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
