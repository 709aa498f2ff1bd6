package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health.
type HealthHandler struct {
	store   Pinger
	driver  string
	timeout time.Duration
	log     *zap.Logger
}

// NewHealthHandler creates a new HealthHandler for the named store driver.
func NewHealthHandler(store Pinger, driver string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		driver:  driver,
		timeout: 2 * time.Second,
		log:     orNop(log),
	}
}

// RegisterRoutes registers GET /health.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health answers 200 when the store responds to a ping and 503 otherwise.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	now := time.Now().UTC()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.String("store", h.driver), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"store":  h.driver,
			"time":   now,
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
		"store":  h.driver,
		"time":   now,
	})
}
