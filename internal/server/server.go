// Package server assembles the backend Fiber application.
package server

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"menucart/internal/handlers"
	"menucart/internal/metrics"
	"menucart/internal/middleware"
	"menucart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Services are the backend's business services.
type Services struct {
	Menu   *services.MenuService
	Orders *services.OrderService
	Auth   *services.AuthService
}

// Options configure New.
type Options struct {
	Logger *slog.Logger
	// AccessLog receives one line per request. Defaults to stdout.
	AccessLog io.Writer
	// EventsEnabled is reported by /health.
	EventsEnabled bool
}

// New builds the Fiber app with every route mounted under /api.
func New(svc Services, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		AppName:      "menucart",
		ErrorHandler: errorHandler(log),
	})

	app.Use(logger.New(logger.Config{Output: accessLog}))
	app.Use(metrics.Middleware())

	menuHandler := handlers.NewMenuHandler(svc.Menu, log)
	orderHandler := handlers.NewOrderHandler(svc.Orders, log)
	authHandler := handlers.NewAuthHandler(svc.Auth, log)

	api := app.Group("/api")
	menuHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)

	staff := api.Group("/staff")
	authHandler.RegisterRoutes(staff)

	protected := staff.Group("", middleware.AuthRequired(svc.Auth, log))
	orderHandler.RegisterStaffRoutes(protected)
	menuHandler.RegisterStaffRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if opts.EventsEnabled {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events,
		})
	})
	app.Get("/metrics", metrics.Handler())

	return app
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled request error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
