// Package app assembles the Fiber application serving the product API.
package app

import (
	"errors"

	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/services"
	"catalog/pkg/logger"
	"catalog/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Options configures New.
type Options struct {
	Name        string
	Service     *services.ProductService
	Logger      *zap.Logger
	Metrics     *metrics.HTTPMetrics // nil disables /metrics
	CORSOrigins string
}

// New builds the application with its middleware stack and routes.
func New(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID(log))
	app.Use(middleware.RequestLogger())
	if opts.Metrics != nil {
		app.Use(middleware.Metrics(opts.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}
	app.Use(recover.New())
	if opts.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))
	}

	handlers.NewProductHandler(opts.Service).RegisterRoutes(app)
	return app
}

// errorHandler answers errors that handlers did not translate themselves.
// Anything that is not a *fiber.Error is an unhandled fault and becomes a 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.FromCtx(c).Error("Unhandled request error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}
