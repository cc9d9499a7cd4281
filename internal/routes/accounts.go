package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/arithguard/internal/account"
)

// RegisterAccountRoutes wires vault and account endpoints for one variant.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/vault", h.InitializeVault)
	r.Get("/vault", h.Vault)

	r.Post("/accounts", h.Create)
	r.Get("/accounts/:owner", h.Get)
	r.Post("/accounts/:owner/deposit", h.Deposit)
	r.Post("/accounts/:owner/withdraw", h.Withdraw)
	r.Post("/accounts/:owner/rewards/compute", h.ComputeReward)
	r.Post("/accounts/:owner/rewards/claim", h.ClaimReward)

	r.Get("/tokens", h.Tokens)
	r.Post("/tokens/deposit", h.DepositTokens)
	r.Post("/tokens/withdraw", h.WithdrawTokens)
}
