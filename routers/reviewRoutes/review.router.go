package reviewRoutes

import (
	reviewController "techgo/controllers/review"
	"techgo/services"
	reviewValidator "techgo/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(api fiber.Router, svc *services.Services) {
	reviews := reviewController.New(svc)
	reviewGroup := api.Group("/reviews")

	reviewGroup.Delete("/:id", reviewValidator.ReviewID(), reviews.DeleteReview)
}
