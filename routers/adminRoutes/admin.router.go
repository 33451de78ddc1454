package adminRoutes

import (
	adminController "techgo/controllers/admin"
	"techgo/services"
	reviewValidator "techgo/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(api fiber.Router, svc *services.Services) {
	admin := adminController.New(svc)
	adminGroup := api.Group("/admin")

	adminGroup.Get("/stats", admin.Stats)
	adminGroup.Get("/reviews", reviewValidator.AdminReviews(), admin.ListReviews)
	adminGroup.Delete("/reviews/:id", reviewValidator.ReviewID(), admin.DeleteReview)
}
