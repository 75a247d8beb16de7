package middleware

import (
	"strconv"
	"time"

	"catalog/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency labelled by route pattern.
func Metrics(m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		m.Observe(
			c.Method(),
			c.Route().Path,
			strconv.Itoa(StatusOf(c, err)),
			time.Since(start).Seconds(),
		)
		return err
	}
}
