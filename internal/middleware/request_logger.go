package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const errorKey = "request_error"

// SetError records the cause of a response the handler already wrote, so the
// request log keeps it even though the client only sees a generic message.
func SetError(c *fiber.Ctx, err error) {
	c.Locals(errorKey, err)
}

// RequestLogger writes one structured line per request. An incoming
// X-Request-ID is reused, otherwise a new one is issued and echoed back.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals("request_id", requestID)

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler pick the status before we read it
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		cause := chainErr
		if cause == nil {
			cause, _ = c.Locals(errorKey).(error)
		}

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error().Err(cause)
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if p, ok := CurrentPrincipal(c); ok {
			event.Str("user_id", p.UserID().String())
		}
		event.Msg("request")
		return nil
	}
}
