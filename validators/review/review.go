package reviewValidator

import (
	"techgo/dto"
	"techgo/middleware"
	"techgo/repositories"
	"techgo/services"
	"techgo/validators"

	"github.com/gofiber/fiber/v2"
)

// ListQuery is the parsed query of the review listings.
type ListQuery struct {
	Filter repositories.ReviewFilter
	Page   int
	Size   int
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(dto.ReviewRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// GadgetReviews parses /gadgets/:id/reviews?page&size&minRating.
func GadgetReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		query := &ListQuery{
			Filter: repositories.ReviewFilter{
				GadgetID:  validators.ParamID(c, "id", errors),
				MinRating: validators.QueryInt(c, "minRating", 0, errors),
			},
			Page: validators.QueryInt(c, "page", 0, errors),
			Size: validators.QueryInt(c, "size", services.DefaultSearchSize, errors),
		}
		if query.Filter.MinRating < 0 || query.Filter.MinRating > 5 {
			errors["minRating"] = "minRating must be between 1 and 5, or 0 for no filter"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReviewList", query)
		return c.Next()
	}
}

// AdminReviews parses /admin/reviews?page&size&gadgetId&rating.
func AdminReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		gadgetID := validators.QueryInt(c, "gadgetId", 0, errors)
		if gadgetID < 0 {
			errors["gadgetId"] = "gadgetId must be a positive integer"
			gadgetID = 0
		}
		query := &ListQuery{
			Filter: repositories.ReviewFilter{
				GadgetID: uint(gadgetID),
				Rating:   validators.QueryInt(c, "rating", 0, errors),
			},
			Page: validators.QueryInt(c, "page", 0, errors),
			Size: validators.QueryInt(c, "size", services.DefaultPageSize, errors),
		}
		if query.Filter.Rating < 0 || query.Filter.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5, or 0 for no filter"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReviewList", query)
		return c.Next()
	}
}

// ReviewID validates the :id route parameter.
func ReviewID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		id := validators.ParamID(c, "id", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("reviewId", id)
		return c.Next()
	}
}
