package adminController

import (
	"techgo/dto"
	"techgo/middleware"
	"techgo/services"
	reviewValidator "techgo/validators/review"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

// Stats is the dashboard summary of catalog, review and comparison activity.
func (ctl *Controller) Stats(c *fiber.Ctx) error {
	stats, err := ctl.svc.Stats.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatsResponse(stats))
}

func (ctl *Controller) ListReviews(c *fiber.Ctx) error {
	query := c.Locals("validatedReviewList").(*reviewValidator.ListQuery)

	page, err := ctl.svc.Reviews.ListAllReviews(c.UserContext(), query.Filter, query.Page, query.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReviewPage(page))
}

func (ctl *Controller) DeleteReview(c *fiber.Ctx) error {
	id := c.Locals("reviewId").(uint)

	if err := ctl.svc.Reviews.DeleteReview(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Health reports database and cache reachability.
func (ctl *Controller) Health(c *fiber.Ctx) error {
	status := ctl.svc.Health(c.UserContext())
	if status["database"] != "up" {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service unavailable!", status)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Service healthy!", status)
}
