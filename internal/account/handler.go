package account

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/arithguard/internal/ledger"
)

// Handler exposes account HTTP endpoints for one ledger variant.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Service returns the service behind the handler.
func (h *Handler) Service() *Service {
	return h.service
}

type ownerRequest struct {
	Owner string `json:"owner"`
	Seed  string `json:"seed"`
}

type authorityRequest struct {
	Authority string `json:"authority"`
	Seed      string `json:"seed"`
}

type amountRequest struct {
	Amount *uint64 `json:"amount"`
}

type rateRequest struct {
	Rate *uint64 `json:"rate"`
}

// InitializeVault sets the vault authority.
func (h *Handler) InitializeVault(c *fiber.Ctx) error {
	var req authorityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	authority, err := resolveOwner(req.Authority, req.Seed)
	if err != nil {
		return err
	}
	st, err := h.service.InitializeVault(c.UserContext(), authority)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"variant": h.service.Variant(), "vault": st})
}

// Vault returns the vault aggregate.
func (h *Handler) Vault(c *fiber.Ctx) error {
	st, err := h.service.Vault(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"variant": h.service.Variant(), "vault": st})
}

// Create provisions a zero-balance record.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req ownerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	owner, err := resolveOwner(req.Owner, req.Seed)
	if err != nil {
		return err
	}
	rec, err := h.service.Create(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(h.recordResponse(rec))
}

// Get returns the owner's balance record.
func (h *Handler) Get(c *fiber.Ctx) error {
	owner, err := ownerParam(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Get(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.recordResponse(rec))
}

// Deposit credits the owner's balance.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	owner, amount, err := ownerAndAmount(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Deposit(c.UserContext(), owner, amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.recordResponse(rec))
}

// Withdraw debits the owner's balance.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	owner, amount, err := ownerAndAmount(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Withdraw(c.UserContext(), owner, amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.recordResponse(rec))
}

// ComputeReward returns balance*rate without changing state.
func (h *Handler) ComputeReward(c *fiber.Ctx) error {
	owner, rate, err := ownerAndRate(c)
	if err != nil {
		return err
	}
	reward, err := h.service.ComputeReward(c.UserContext(), owner, rate)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"variant": h.service.Variant(),
		"owner":   owner,
		"rate":    rate,
		"reward":  reward,
	})
}

// ClaimReward computes the reward and credits it.
func (h *Handler) ClaimReward(c *fiber.Ctx) error {
	owner, rate, err := ownerAndRate(c)
	if err != nil {
		return err
	}
	res, err := h.service.ClaimReward(c.UserContext(), owner, rate)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"variant": h.service.Variant(),
		"rate":    rate,
		"reward":  res.Reward,
		"record":  res.Record,
	})
}

// Tokens returns the token vault.
func (h *Handler) Tokens(c *fiber.Ctx) error {
	res, err := h.service.Tokens(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.tokenResponse(res))
}

// DepositTokens pays tokens into the vault.
func (h *Handler) DepositTokens(c *fiber.Ctx) error {
	amount, err := amountBody(c)
	if err != nil {
		return err
	}
	res, err := h.service.DepositTokens(c.UserContext(), amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.tokenResponse(res))
}

// WithdrawTokens pays tokens out of the vault.
func (h *Handler) WithdrawTokens(c *fiber.Ctx) error {
	amount, err := amountBody(c)
	if err != nil {
		return err
	}
	res, err := h.service.WithdrawTokens(c.UserContext(), amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(h.tokenResponse(res))
}

func (h *Handler) tokenResponse(res TokenResult) fiber.Map {
	return fiber.Map{"variant": h.service.Variant(), "tokens": res.Vault, "available": res.Available}
}

func (h *Handler) recordResponse(rec ledger.Record) fiber.Map {
	return fiber.Map{"variant": h.service.Variant(), "record": rec}
}

func resolveOwner(hexOwner, seed string) (ledger.Owner, error) {
	hexOwner, seed = strings.TrimSpace(hexOwner), strings.TrimSpace(seed)
	switch {
	case hexOwner != "" && seed != "":
		return ledger.Owner{}, fiber.NewError(http.StatusBadRequest, "provide either owner or seed, not both")
	case hexOwner != "":
		owner, err := ledger.ParseOwner(hexOwner)
		if err != nil {
			return ledger.Owner{}, fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return owner, nil
	case seed != "":
		return ledger.OwnerFromSeed(seed), nil
	default:
		return ledger.Owner{}, fiber.NewError(http.StatusBadRequest, "owner or seed is required")
	}
}

func ownerParam(c *fiber.Ctx) (ledger.Owner, error) {
	owner, err := ledger.ParseOwner(c.Params("owner"))
	if err != nil {
		return ledger.Owner{}, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return owner, nil
}

func ownerAndAmount(c *fiber.Ctx) (ledger.Owner, uint64, error) {
	owner, err := ownerParam(c)
	if err != nil {
		return ledger.Owner{}, 0, err
	}
	amount, err := amountBody(c)
	if err != nil {
		return ledger.Owner{}, 0, err
	}
	return owner, amount, nil
}

func amountBody(c *fiber.Ctx) (uint64, error) {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount == nil {
		return 0, fiber.NewError(http.StatusBadRequest, "amount is required")
	}
	return *req.Amount, nil
}

func ownerAndRate(c *fiber.Ctx) (ledger.Owner, uint64, error) {
	owner, err := ownerParam(c)
	if err != nil {
		return ledger.Owner{}, 0, err
	}
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return ledger.Owner{}, 0, fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Rate == nil {
		return ledger.Owner{}, 0, fiber.NewError(http.StatusBadRequest, "rate is required")
	}
	return owner, *req.Rate, nil
}

// OwnerParam parses the :owner path parameter.
func OwnerParam(c *fiber.Ctx) (ledger.Owner, error) {
	return ownerParam(c)
}
