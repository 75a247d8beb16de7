package middleware

import (
	"errors"
	"strings"
	"time"

	"catalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDLocalsKey is the Fiber locals key holding the request id.
const RequestIDLocalsKey = "request_id"

// RequestID propagates X-Request-ID, generating one when the client sent none,
// and stores a logger tagged with it for the handlers.
func RequestID(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// fasthttp reuses header buffers, so keep our own copy
		requestID := strings.Clone(c.Get(fiber.HeaderXRequestID))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals(RequestIDLocalsKey, requestID)
		c.Locals(logger.LocalsKey, base.With(zap.String("request_id", requestID)))
		return c.Next()
	}
}

// RequestLogger logs one line per request after it has been handled.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.FromCtx(c).Info("HTTP Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", StatusOf(c, err)),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// StatusOf predicts the status code the error handler will send for err.
func StatusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
