package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Audit emits one structured log line per request. Errors from the chain
// are rendered through the app's error handler first so the logged status
// is the one the client sees.
func Audit(logger *zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error().Err(chainErr)
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
			if chainErr != nil {
				event = event.Str("reason", chainErr.Error())
			}
		default:
			event = logger.Info()
		}
		event = event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start))
		if id := GetRequestID(c); id != "" {
			event = event.Str("request_id", id)
		}
		event.Msg("request completed")
		return nil
	}
}
