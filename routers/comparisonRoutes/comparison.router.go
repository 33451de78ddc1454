package comparisonRoutes

import (
	comparisonController "techgo/controllers/comparison"
	"techgo/services"
	comparisonValidator "techgo/validators/comparison"

	"github.com/gofiber/fiber/v2"
)

func SetupComparisonRoutes(api fiber.Router, svc *services.Services) {
	comparisons := comparisonController.New(svc)
	comparisonGroup := api.Group("/comparisons")

	comparisonGroup.Post("/", comparisonValidator.CreateComparison(), comparisons.CreateComparison)
	comparisonGroup.Get("/:id", comparisonValidator.ComparisonID(), comparisons.GetComparison)
	comparisonGroup.Delete("/:id", comparisonValidator.ComparisonID(), comparisons.DeleteComparison)
	comparisonGroup.Get("/:id/compare", comparisonValidator.ComparisonID(), comparisons.Compare)

	// Membership
	comparisonGroup.Post("/:id/gadgets", comparisonValidator.ComparisonID(), comparisonValidator.AddGadget(), comparisons.AddGadget)
	comparisonGroup.Delete("/:id/gadgets/:gadgetId", comparisonValidator.ComparisonID(), comparisonValidator.RemoveGadget(), comparisons.RemoveGadget)
}
