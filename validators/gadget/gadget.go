package gadgetValidator

import (
	"strings"

	"techgo/dto"
	"techgo/middleware"
	"techgo/models"
	"techgo/repositories"
	"techgo/services"
	"techgo/validators"

	"github.com/gofiber/fiber/v2"
)

// ListQuery is the parsed query of the catalog listing and search routes.
type ListQuery struct {
	Filter repositories.GadgetFilter
	Sort   repositories.SortBy
	Page   int
	Size   int
}

// FeaturedQuery is shared by the featured, latest and popular routes.
type FeaturedQuery struct {
	Category models.Category
	Limit    int
}

func ListGadgets() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		query := &ListQuery{
			Filter: repositories.GadgetFilter{
				Name:      strings.TrimSpace(c.Query("search")),
				Category:  validators.QueryCategory(c, errors),
				Brand:     strings.TrimSpace(c.Query("brand")),
				MinPrice:  validators.QueryDecimal(c, "minPrice", errors),
				MaxPrice:  validators.QueryDecimal(c, "maxPrice", errors),
				MinRating: validators.QueryDecimal(c, "minRating", errors),
			},
			Page: validators.QueryInt(c, "page", 0, errors),
			Size: validators.QueryInt(c, "size", services.DefaultPageSize, errors),
		}

		sort, err := repositories.ParseSort(c.Query("sortBy"))
		if err != nil {
			errors["sortBy"] = "sortBy must be one of id, name, price, price_desc, rating, featured, latest, popular"
		}
		query.Sort = sort

		if query.Filter.MinPrice != nil && query.Filter.MaxPrice != nil && query.Filter.MinPrice.GreaterThan(*query.Filter.MaxPrice) {
			errors["minPrice"] = "minPrice must not exceed maxPrice"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGadgetList", query)
		return c.Next()
	}
}

// SearchGadgets requires a non-blank q.
func SearchGadgets() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			errors["q"] = "Search query must not be blank"
		}
		query := &ListQuery{
			Filter: repositories.GadgetFilter{
				Name:     q,
				Category: validators.QueryCategory(c, errors),
				Brand:    strings.TrimSpace(c.Query("brand")),
			},
			Sort: repositories.SortID,
			Page: validators.QueryInt(c, "page", 0, errors),
			Size: validators.QueryInt(c, "size", services.DefaultSearchSize, errors),
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGadgetSearch", query)
		return c.Next()
	}
}

func Featured() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		query := &FeaturedQuery{
			Category: validators.QueryCategory(c, errors),
			Limit:    validators.QueryInt(c, "limit", services.DefaultFeatured, errors),
		}
		if query.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFeatured", query)
		return c.Next()
	}
}

func Brands() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		category := validators.QueryCategory(c, errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", category)
		return c.Next()
	}
}

// GadgetID validates the :id route parameter.
func GadgetID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		id := validators.ParamID(c, "id", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("gadgetId", id)
		return c.Next()
	}
}

// SaveGadget validates the body shared by create and update.
func SaveGadget() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(dto.GadgetRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGadget", reqData)
		return c.Next()
	}
}

func CreateSpecification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(dto.SpecificationRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSpecification", reqData)
		return c.Next()
	}
}
