package gadgetController

import (
	"techgo/dto"
	"techgo/models"
	"techgo/services"
	gadgetValidator "techgo/validators/gadget"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

// ListGadgets is the filtered, sorted and paged catalog listing.
func (ctl *Controller) ListGadgets(c *fiber.Ctx) error {
	query := c.Locals("validatedGadgetList").(*gadgetValidator.ListQuery)

	page, err := ctl.svc.Gadgets.List(c.UserContext(), query.Filter, query.Sort, query.Page, query.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetPage(page))
}

func (ctl *Controller) SearchGadgets(c *fiber.Ctx) error {
	query := c.Locals("validatedGadgetSearch").(*gadgetValidator.ListQuery)

	page, err := ctl.svc.Gadgets.Search(c.UserContext(), query.Filter.Name, query.Filter.Category, query.Filter.Brand, query.Page, query.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetPage(page))
}

func (ctl *Controller) FeaturedGadgets(c *fiber.Ctx) error {
	query := c.Locals("validatedFeatured").(*gadgetValidator.FeaturedQuery)

	gadgets, err := ctl.svc.Gadgets.Featured(c.UserContext(), query.Category, query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetResponses(gadgets))
}

func (ctl *Controller) LatestGadgets(c *fiber.Ctx) error {
	query := c.Locals("validatedFeatured").(*gadgetValidator.FeaturedQuery)

	gadgets, err := ctl.svc.Gadgets.Latest(c.UserContext(), query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetResponses(gadgets))
}

func (ctl *Controller) PopularGadgets(c *fiber.Ctx) error {
	query := c.Locals("validatedFeatured").(*gadgetValidator.FeaturedQuery)

	gadgets, err := ctl.svc.Gadgets.Popular(c.UserContext(), query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetResponses(gadgets))
}

func (ctl *Controller) Brands(c *fiber.Ctx) error {
	category := c.Locals("validatedCategory").(models.Category)

	brands, err := ctl.svc.Gadgets.Brands(c.UserContext(), category)
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

// Categories lists the catalog categories with their display names.
func (ctl *Controller) Categories(c *fiber.Ctx) error {
	out := make([]fiber.Map, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		out = append(out, fiber.Map{"value": category, "displayName": category.DisplayName()})
	}
	return c.JSON(out)
}

func (ctl *Controller) GetGadget(c *fiber.Ctx) error {
	id := c.Locals("gadgetId").(uint)

	detail, err := ctl.svc.Gadgets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetDetailResponse(detail))
}

func (ctl *Controller) CreateGadget(c *fiber.Ctx) error {
	reqData := c.Locals("validatedGadget").(*dto.GadgetRequest)

	specs := make([]services.SpecInput, 0, len(reqData.Specifications))
	for _, s := range reqData.Specifications {
		specs = append(specs, services.SpecInput{Name: s.SpecName, Value: s.SpecValue})
	}

	detail, err := ctl.svc.Gadgets.Create(c.UserContext(), gadgetInput(reqData), specs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewGadgetDetailResponse(detail))
}

// UpdateGadget replaces the editable columns; specifications are untouched.
func (ctl *Controller) UpdateGadget(c *fiber.Ctx) error {
	id := c.Locals("gadgetId").(uint)
	reqData := c.Locals("validatedGadget").(*dto.GadgetRequest)

	detail, err := ctl.svc.Gadgets.Update(c.UserContext(), id, gadgetInput(reqData))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGadgetDetailResponse(detail))
}

func (ctl *Controller) DeleteGadget(c *fiber.Ctx) error {
	id := c.Locals("gadgetId").(uint)

	if err := ctl.svc.Gadgets.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctl *Controller) ListSpecifications(c *fiber.Ctx) error {
	id := c.Locals("gadgetId").(uint)

	specs, err := ctl.svc.Gadgets.ListSpecifications(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSpecificationResponses(specs))
}

func (ctl *Controller) AddSpecification(c *fiber.Ctx) error {
	id := c.Locals("gadgetId").(uint)
	reqData := c.Locals("validatedSpecification").(*dto.SpecificationRequest)

	spec, err := ctl.svc.Gadgets.AddSpecification(c.UserContext(), id, services.SpecInput{Name: reqData.SpecName, Value: reqData.SpecValue})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSpecificationResponse(*spec))
}

func gadgetInput(req *dto.GadgetRequest) services.GadgetInput {
	category, _ := models.ParseCategory(req.Category)
	return services.GadgetInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    category,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
}
