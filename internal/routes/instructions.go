package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/arithguard/internal/account"
	"github.com/congo-pay/arithguard/internal/instruction"
)

// RegisterInstructionRoutes accepts raw binary instructions for an owner.
func RegisterInstructionRoutes(r fiber.Router, svc *account.Service) {
	r.Post("/accounts/:owner/instructions", func(c *fiber.Ctx) error {
		owner, err := account.OwnerParam(c)
		if err != nil {
			return err
		}
		ins, err := instruction.Decode(c.Body())
		if err != nil {
			return err
		}
		res, err := instruction.Execute(c.UserContext(), svc, owner, ins)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"variant":     svc.Variant(),
			"instruction": ins.Op.String(),
			"result":      res,
		})
	})
}
