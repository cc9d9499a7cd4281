package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/congo-pay/arithguard/internal/account"
	"github.com/congo-pay/arithguard/internal/instruction"
	"github.com/congo-pay/arithguard/internal/ledger"
	"github.com/congo-pay/arithguard/internal/middleware"
	"github.com/congo-pay/arithguard/internal/vault"
)

// ErrorHandler renders every handler error as JSON. Ledger rejections carry
// their kind and numeric code.
func ErrorHandler(logger *zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		body := fiber.Map{"error": err.Error()}

		var fe *fiber.Error
		if kind, ok := ledger.KindOf(err); ok {
			status = http.StatusUnprocessableEntity
			body["kind"] = kind.String()
			body["code"] = kind.Code()
		} else if errors.As(err, &fe) {
			status = fe.Code
		} else {
			switch {
			case errors.Is(err, account.ErrAccountNotFound):
				status = http.StatusNotFound
			case errors.Is(err, account.ErrAccountExists), errors.Is(err, vault.ErrAlreadyInitialized):
				status = http.StatusConflict
			case errors.Is(err, instruction.ErrInvalidInstructionData), errors.Is(err, ledger.ErrInvalidAccountData):
				status = http.StatusBadRequest
			}
		}

		if id := middleware.GetRequestID(c); id != "" {
			body["request_id"] = id
		}
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
			body["error"] = http.StatusText(status)
		}
		return c.Status(status).JSON(body)
	}
}
