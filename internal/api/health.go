package api

import (
	"log/slog"
	"time"

	"roobaroo/internal/config"
	"roobaroo/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	repo repository.Repository
	cfg  *config.Config
}

func NewHealthHandler(repo repository.Repository, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		repo: repo,
		cfg:  cfg,
	}
}

// Healthy reports liveness. The endpoint answers 200 even when the
// store is unreachable; the database field carries the distinction.
func (h *HealthHandler) Healthy(c *fiber.Ctx) error {
	database := "Connected"
	if err := h.repo.HealthCheck(c.Context()); err != nil {
		slog.ErrorContext(c.Context(), "Database health check failed", "error", err)
		database = "Disconnected"
	}

	return c.JSON(fiber.Map{
		"status":      "OK",
		"message":     "ROOBAROO backend is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Server.Environment,
		"database":    database,
	})
}
