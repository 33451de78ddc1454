package comparisonValidator

import (
	"techgo/dto"
	"techgo/middleware"
	"techgo/services"
	"techgo/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateComparison() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(dto.ComparisonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedComparison", reqData)
		return c.Next()
	}
}

// ComparisonID accepts only canonical list ids; anything else cannot exist.
func ComparisonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return services.NotFound("Comparison not found with id: %s", id)
		}

		c.Locals("comparisonId", id)
		return c.Next()
	}
}

func AddGadget() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(dto.AddToComparisonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddGadget", reqData)
		return c.Next()
	}
}

// RemoveGadget validates the :gadgetId route parameter.
func RemoveGadget() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		gadgetID := validators.ParamID(c, "gadgetId", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("gadgetId", gadgetID)
		return c.Next()
	}
}
