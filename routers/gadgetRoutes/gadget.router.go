package gadgetRoutes

import (
	gadgetController "techgo/controllers/gadget"
	reviewController "techgo/controllers/review"
	"techgo/services"
	gadgetValidator "techgo/validators/gadget"
	reviewValidator "techgo/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupGadgetRoutes(api fiber.Router, svc *services.Services) {
	gadgets := gadgetController.New(svc)
	reviews := reviewController.New(svc)
	gadgetGroup := api.Group("/gadgets")

	// Listings; registered before /:id so the literal paths win
	gadgetGroup.Get("/", gadgetValidator.ListGadgets(), gadgets.ListGadgets)
	gadgetGroup.Get("/search", gadgetValidator.SearchGadgets(), gadgets.SearchGadgets)
	gadgetGroup.Get("/featured", gadgetValidator.Featured(), gadgets.FeaturedGadgets)
	gadgetGroup.Get("/latest", gadgetValidator.Featured(), gadgets.LatestGadgets)
	gadgetGroup.Get("/popular", gadgetValidator.Featured(), gadgets.PopularGadgets)
	gadgetGroup.Get("/brands", gadgetValidator.Brands(), gadgets.Brands)
	gadgetGroup.Get("/categories", gadgets.Categories)

	// CRUD
	gadgetGroup.Post("/", gadgetValidator.SaveGadget(), gadgets.CreateGadget)
	gadgetGroup.Get("/:id", gadgetValidator.GadgetID(), gadgets.GetGadget)
	gadgetGroup.Put("/:id", gadgetValidator.GadgetID(), gadgetValidator.SaveGadget(), gadgets.UpdateGadget)
	gadgetGroup.Delete("/:id", gadgetValidator.GadgetID(), gadgets.DeleteGadget)

	// Specifications
	gadgetGroup.Get("/:id/specifications", gadgetValidator.GadgetID(), gadgets.ListSpecifications)
	gadgetGroup.Post("/:id/specifications", gadgetValidator.GadgetID(), gadgetValidator.CreateSpecification(), gadgets.AddSpecification)

	// Reviews
	gadgetGroup.Get("/:id/reviews", reviewValidator.GadgetReviews(), reviews.ListReviews)
	gadgetGroup.Post("/:id/reviews", gadgetValidator.GadgetID(), reviewValidator.CreateReview(), reviews.AddReview)
	gadgetGroup.Get("/:id/reviews/distribution", gadgetValidator.GadgetID(), reviews.Distribution)
}
