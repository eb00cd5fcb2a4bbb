package api

import (
	"errors"
	"log/slog"
	"time"

	"roobaroo/internal/config"
	"roobaroo/internal/repository"
	"roobaroo/internal/service"
	"roobaroo/internal/validator"

	"github.com/gofiber/fiber/v2"
)

type RegistrationHandler struct {
	service *service.RegistrationService
	cfg     *config.Config
}

func NewRegistrationHandler(svc *service.RegistrationService, cfg *config.Config) *RegistrationHandler {
	return &RegistrationHandler{
		service: svc,
		cfg:     cfg,
	}
}

// Register handles POST /api/register.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var payload validator.Payload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing required fields",
			"details": []string{"Request body must be valid JSON"},
		})
	}

	view, err := h.service.Submit(c.Context(), payload, c.IP())
	if err != nil {
		return h.renderSubmitError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration submitted successfully!",
		"data":    view,
	})
}

// renderSubmitError maps the service error taxonomy onto the response
// surface. Every storage failure arrives here already classified; raw
// driver errors never reach a client.
func (h *RegistrationHandler) renderSubmitError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		errText := "Validation failed"
		if validationErr.MissingFields {
			errText = "Missing required fields"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   errText,
			"details": validationErr.Details,
		})

	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, repository.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "This email is already registered for the event",
			"code":    "DUPLICATE_EMAIL",
		})

	case errors.Is(err, repository.ErrSchemaValidation):
		// The store rejected a document the validator let through.
		slog.ErrorContext(c.Context(), "Store-side schema validation rejected a registration", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Validation failed",
			"code":    "VALIDATION_ERROR",
		})

	default:
		slog.ErrorContext(c.Context(), "Registration failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Registration failed. Please try again later.",
			"code":    "INTERNAL_ERROR",
		})
	}
}

// DescribeAPI handles GET /api/register with a static description of
// the registration endpoint.
func (h *RegistrationHandler) DescribeAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":        "ROOBAROO Registration API",
		"method":         "POST",
		"endpoint":       "/api/register",
		"requiredFields": []string{"name", "email", "phone", "status"},
		"statusOptions":  []string{"single", "couple"},
		"example": fiber.Map{
			"name":   "John Doe",
			"email":  "john@example.com",
			"phone":  "9876543210",
			"status": "single",
		},
		"database":  "MongoDB",
		"rateLimit": "5 requests per 15 minutes per IP",
	})
}

// Stats handles GET /api/stats.
func (h *RegistrationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "Failed to fetch statistics", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch statistics",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// TestDB handles GET /api/test-db, a connectivity probe that performs
// one real store round trip.
func (h *RegistrationHandler) TestDB(c *fiber.Ctx) error {
	count, err := h.service.ProbeDatabase(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "Database test failed", "error", err)

		body := fiber.Map{
			"success": false,
			"error":   "Database connection failed",
			"troubleshooting": []string{
				"Check MONGODB_URI in your environment",
				"Verify your MongoDB cluster is running",
				"Check your network IP is whitelisted",
				"Ensure your database user has proper permissions",
			},
		}
		if !h.cfg.IsProduction() {
			body["details"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"message":            "MongoDB connection successful!",
		"database":           "MongoDB",
		"totalRegistrations": count,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	})
}
