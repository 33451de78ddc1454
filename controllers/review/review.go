package reviewController

import (
	"strconv"

	"techgo/dto"
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

func (ctl *Controller) ListReviews(c *fiber.Ctx) error {
	query := c.Locals("validatedReviewList").(*reviewValidator.ListQuery)

	page, err := ctl.svc.Reviews.ListReviews(c.UserContext(), query.Filter.GadgetID, query.Filter.MinRating, query.Page, query.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReviewPage(page))
}

func (ctl *Controller) AddReview(c *fiber.Ctx) error {
	gadgetID := c.Locals("gadgetId").(uint)
	reqData := c.Locals("validatedReview").(*dto.ReviewRequest)

	review, err := ctl.svc.Reviews.AddReview(c.UserContext(), gadgetID, services.ReviewInput{
		UserName: reqData.UserName,
		Email:    reqData.Email,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReviewResponse(*review))
}

// Distribution returns review counts keyed by star, "1" through "5".
func (ctl *Controller) Distribution(c *fiber.Ctx) error {
	gadgetID := c.Locals("gadgetId").(uint)

	counts, err := ctl.svc.Reviews.RatingDistribution(c.UserContext(), gadgetID)
	if err != nil {
		return err
	}
	out := make(map[string]int64, len(counts))
	for star, n := range counts {
		out[strconv.Itoa(star)] = n
	}
	return c.JSON(out)
}

func (ctl *Controller) DeleteReview(c *fiber.Ctx) error {
	id := c.Locals("reviewId").(uint)

	if err := ctl.svc.Reviews.DeleteReview(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
