package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

// RequestIDHeader carries the request id across services
const RequestIDHeader = "X-Request-ID"

// RequestLogger returns a middleware that logs HTTP requests with a request
// id. The health endpoint is excluded to keep probes out of the logs.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/api/v1/health" {
			return c.Next()
		}

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		fields := map[string]interface{}{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.IP(),
		}
		if err != nil {
			fields["error"] = err.Error()
		}

		if status >= fiber.StatusInternalServerError {
			logger.ErrorWithFields("request", fields)
		} else {
			logger.InfoWithFields("request", fields)
		}

		return err
	}
}
