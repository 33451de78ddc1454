package repositories

import (
	"context"
	"fmt"

	"techgo/models"

	"gorm.io/gorm"
)

type Specifications interface {
	Create(ctx context.Context, specs ...*models.GadgetSpecification) error
	ListByGadget(ctx context.Context, gadgetID uint) ([]models.GadgetSpecification, error)
	ListByGadgets(ctx context.Context, gadgetIDs []uint) ([]models.GadgetSpecification, error)
	ExistsByName(ctx context.Context, gadgetID uint, specName string) (bool, error)
	DeleteByGadget(ctx context.Context, gadgetID uint) error
}

type specificationRepository struct {
	db *gorm.DB
}

var _ Specifications = (*specificationRepository)(nil)

func (r *specificationRepository) Create(ctx context.Context, specs ...*models.GadgetSpecification) error {
	if len(specs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(specs).Error; err != nil {
		return fmt.Errorf("failed to create specifications: %w", err)
	}
	return nil
}

func (r *specificationRepository) ListByGadget(ctx context.Context, gadgetID uint) ([]models.GadgetSpecification, error) {
	return r.ListByGadgets(ctx, []uint{gadgetID})
}

// ListByGadgets returns specifications in insertion order.
func (r *specificationRepository) ListByGadgets(ctx context.Context, gadgetIDs []uint) ([]models.GadgetSpecification, error) {
	specs := []models.GadgetSpecification{}
	if len(gadgetIDs) == 0 {
		return specs, nil
	}
	if err := r.db.WithContext(ctx).
		Where("gadget_id IN ?", gadgetIDs).
		Order("id ASC").
		Find(&specs).Error; err != nil {
		return nil, fmt.Errorf("failed to list specifications: %w", err)
	}
	return specs, nil
}

func (r *specificationRepository) ExistsByName(ctx context.Context, gadgetID uint, specName string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GadgetSpecification{}).
		Where("gadget_id = ? AND spec_name = ?", gadgetID, specName).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check specification name: %w", err)
	}
	return count > 0, nil
}

func (r *specificationRepository) DeleteByGadget(ctx context.Context, gadgetID uint) error {
	if err := r.db.WithContext(ctx).Where("gadget_id = ?", gadgetID).Delete(&models.GadgetSpecification{}).Error; err != nil {
		return fmt.Errorf("failed to delete specifications: %w", err)
	}
	return nil
}
