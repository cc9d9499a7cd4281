package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/arithguard/internal/scenario"
)

type scenarioResponse struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Demonstrates bool            `json:"demonstrates"`
	Safe         scenario.Report `json:"safe"`
	Unsafe       scenario.Report `json:"unsafe"`
}

// RegisterScenarioRoutes exposes the built-in side-by-side comparisons.
func RegisterScenarioRoutes(r fiber.Router) {
	r.Get("/scenarios", func(c *fiber.Ctx) error {
		comparisons, err := scenario.CompareAll(c.UserContext(), scenario.Builtin())
		if err != nil {
			return err
		}
		out := make([]scenarioResponse, 0, len(comparisons))
		for _, cmp := range comparisons {
			out = append(out, scenarioResponse{
				Name:         cmp.Scenario.Name,
				Description:  cmp.Scenario.Description,
				Demonstrates: cmp.Demonstrates(),
				Safe:         cmp.Safe,
				Unsafe:       cmp.Unsafe,
			})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"scenarios": out})
	})
}
