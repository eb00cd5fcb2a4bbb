package api

import (
	"strings"

	"roobaroo/internal/config"
	"roobaroo/internal/middleware"
	"roobaroo/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp assembles the Fiber application: security headers, CORS,
// request logging, the two rate-limit gates, the API routes, and the
// catch-all 404.
func NewApp(cfg *config.Config, regHandler *RegistrationHandler, healthHandler *HealthHandler, globalLimiter, registerLimiter ratelimit.Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORS.AllowOrigins, ", "),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.Logger())
	app.Use(middleware.RateLimit(globalLimiter,
		"Too many requests from this IP, please try again later."))

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", healthHandler.Healthy)
	apiGroup.Post("/register",
		middleware.RateLimit(registerLimiter,
			"Too many registration attempts. Please try again in 15 minutes."),
		regHandler.Register)
	apiGroup.Get("/register", regHandler.DescribeAPI)
	apiGroup.Get("/stats", regHandler.Stats)
	apiGroup.Get("/test-db", regHandler.TestDB)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Endpoint not found. Available endpoints: GET /api/health, POST /api/register",
		})
	})

	return app
}
