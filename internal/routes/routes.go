package routes

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	reportHandler *handlers.ReportHandler,
	notifyHandler *handlers.NotifyHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health and metrics sit outside the rate limiter.
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	var api fiber.Router = app
	if cfg.API.RateLimitPerMinute > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.API.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	// Intake and lookups are public
	api.Post("/report", reportHandler.CreateReport)
	api.Get("/reports", reportHandler.ListRecent)
	api.Get("/report/:id", reportHandler.GetReport)

	// Status changes and dispatch need admin credentials when configured
	api.Put("/change_status", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg), reportHandler.ChangeStatus)
	api.Post("/notify", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg), notifyHandler.Notify)
}

// ErrorHandler answers errors that escaped the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
