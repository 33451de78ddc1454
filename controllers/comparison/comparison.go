package comparisonController

import (
	"techgo/dto"
	"techgo/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

func (ctl *Controller) CreateComparison(c *fiber.Ctx) error {
	reqData := c.Locals("validatedComparison").(*dto.ComparisonRequest)

	list, err := ctl.svc.Comparisons.CreateComparison(c.UserContext(), reqData.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewComparisonResponse(*list, nil, ctl.svc.Comparisons.Now()))
}

func (ctl *Controller) GetComparison(c *fiber.Ctx) error {
	id := c.Locals("comparisonId").(string)

	resp, err := ctl.render(c, id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AddGadget answers 201 for a new member and 200 when the gadget was
// already on the list. Both return the whole list.
func (ctl *Controller) AddGadget(c *fiber.Ctx) error {
	id := c.Locals("comparisonId").(string)
	reqData := c.Locals("validatedAddGadget").(*dto.AddToComparisonRequest)

	_, created, err := ctl.svc.Comparisons.AddGadget(c.UserContext(), id, reqData.GadgetID)
	if err != nil {
		return err
	}

	resp, err := ctl.render(c, id)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

func (ctl *Controller) RemoveGadget(c *fiber.Ctx) error {
	id := c.Locals("comparisonId").(string)
	gadgetID := c.Locals("gadgetId").(uint)

	removed, err := ctl.svc.Comparisons.RemoveGadget(c.UserContext(), id, gadgetID)
	if err != nil {
		return err
	}

	resp, err := ctl.render(c, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.RemoveGadgetResponse{Removed: removed, Comparison: resp})
}

func (ctl *Controller) Compare(c *fiber.Ctx) error {
	id := c.Locals("comparisonId").(string)

	view, err := ctl.svc.Comparisons.CompareView(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCompareResponse(view, ctl.svc.Comparisons.Now()))
}

func (ctl *Controller) DeleteComparison(c *fiber.Ctx) error {
	id := c.Locals("comparisonId").(string)

	if err := ctl.svc.Comparisons.DeleteComparison(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctl *Controller) render(c *fiber.Ctx, id string) (dto.ComparisonResponse, error) {
	detail, err := ctl.svc.Comparisons.GetComparison(c.UserContext(), id)
	if err != nil {
		return dto.ComparisonResponse{}, err
	}
	return dto.NewComparisonResponse(detail.List, detail.Gadgets, ctl.svc.Comparisons.Now()), nil
}
