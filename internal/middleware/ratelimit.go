package middleware

import (
	"log/slog"

	"roobaroo/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimit gates requests through the given limiter, keyed by client
// address. Over-limit requests are rejected before any handler runs.
// Limiter backend failures fail open: a broken Redis should not take
// registrations down with it.
func RateLimit(limiter ratelimit.Limiter, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.Context(), c.IP())
		if err != nil {
			slog.Error("Rate limiter check failed", "error", err, "ip", c.IP())
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   message,
				"code":    "RATE_LIMIT_EXCEEDED",
			})
		}

		return c.Next()
	}
}
