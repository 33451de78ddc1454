package repositories

import (
	"context"
	"fmt"

	"techgo/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gadgets is the catalog store.
type Gadgets interface {
	Create(ctx context.Context, gadget *models.Gadget) error
	Update(ctx context.Context, gadget *models.Gadget) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Gadget, error)
	// FindByIDForUpdate row-locks the gadget until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Gadget, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Gadget, error)
	FindByNameAndBrand(ctx context.Context, name, brand string) (*models.Gadget, error)
	// ExistsByNameAndBrand ignores the gadget with id excludeID (0 excludes nothing).
	ExistsByNameAndBrand(ctx context.Context, name, brand string, excludeID uint) (bool, error)
	Search(ctx context.Context, filter GadgetFilter, sort SortBy, page, size int) ([]models.Gadget, int64, error)
	Brands(ctx context.Context, category models.Category) ([]string, error)
	UpdateRating(ctx context.Context, id uint, rating decimal.Decimal, reviewCount int) error
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[models.Category]int64, error)
	CountBrands(ctx context.Context) (int64, error)
}

type gadgetRepository struct {
	db *gorm.DB
}

var _ Gadgets = (*gadgetRepository)(nil)

func (r *gadgetRepository) Create(ctx context.Context, gadget *models.Gadget) error {
	if err := r.db.WithContext(ctx).Create(gadget).Error; err != nil {
		if duplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create gadget: %w", err)
	}
	return nil
}

// Update overwrites the editable columns; rating and review count are left alone.
// Callers lock the row first, so a missing row is not reported here.
func (r *gadgetRepository) Update(ctx context.Context, gadget *models.Gadget) error {
	result := r.db.WithContext(ctx).Model(&models.Gadget{}).
		Where("id = ?", gadget.ID).
		Updates(map[string]interface{}{
			"name":        gadget.Name,
			"brand":       gadget.Brand,
			"category":    gadget.Category,
			"price":       gadget.Price,
			"description": gadget.Description,
			"image_url":   gadget.ImageURL,
			"updated_at":  gadget.UpdatedAt,
		})
	if err := result.Error; err != nil {
		if duplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update gadget: %w", err)
	}
	return nil
}

func (r *gadgetRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Gadget{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete gadget: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gadgetRepository) FindByID(ctx context.Context, id uint) (*models.Gadget, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *gadgetRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Gadget, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *gadgetRepository) first(q *gorm.DB, id uint) (*models.Gadget, error) {
	var gadget models.Gadget
	if err := q.First(&gadget, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find gadget: %w", err)
	}
	return &gadget, nil
}

func (r *gadgetRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Gadget, error) {
	gadgets := []models.Gadget{}
	if len(ids) == 0 {
		return gadgets, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&gadgets).Error; err != nil {
		return nil, fmt.Errorf("failed to find gadgets: %w", err)
	}
	return gadgets, nil
}

func (r *gadgetRepository) FindByNameAndBrand(ctx context.Context, name, brand string) (*models.Gadget, error) {
	var gadget models.Gadget
	if err := r.db.WithContext(ctx).Where("name = ? AND brand = ?", name, brand).First(&gadget).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find gadget by name: %w", err)
	}
	return &gadget, nil
}

func (r *gadgetRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Gadget{}).Where("name = ? AND brand = ?", name, brand)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check gadget name: %w", err)
	}
	return count > 0, nil
}

// Search returns one page of gadgets matching filter plus the total match count.
// SortFeatured also restricts the result to gadgets rated at least 4.0.
func (r *gadgetRepository) Search(ctx context.Context, filter GadgetFilter, sort SortBy, page, size int) ([]models.Gadget, int64, error) {
	base := func() *gorm.DB {
		q := filter.apply(r.db.WithContext(ctx).Model(&models.Gadget{}))
		if sort == SortFeatured {
			q = q.Where("rating >= ?", models.FeaturedMinRating)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count gadgets: %w", err)
	}

	gadgets := []models.Gadget{}
	if total == 0 {
		return gadgets, 0, nil
	}
	if err := base().Order(sort.orderClause()).Offset(offset(page, size)).Limit(size).Find(&gadgets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search gadgets: %w", err)
	}
	return gadgets, total, nil
}

func (r *gadgetRepository) Brands(ctx context.Context, category models.Category) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&models.Gadget{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	brands := []string{}
	if err := q.Distinct("brand").Order("brand ASC").Pluck("brand", &brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (r *gadgetRepository) UpdateRating(ctx context.Context, id uint, rating decimal.Decimal, reviewCount int) error {
	result := r.db.WithContext(ctx).Model(&models.Gadget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review_count": reviewCount})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update gadget rating: %w", err)
	}
	return nil
}

func (r *gadgetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Gadget{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count gadgets: %w", err)
	}
	return count, nil
}

func (r *gadgetRepository) CountByCategory(ctx context.Context) (map[models.Category]int64, error) {
	var rows []struct {
		Category models.Category
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Gadget{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count gadgets by category: %w", err)
	}

	counts := make(map[models.Category]int64, len(models.Categories()))
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}

func (r *gadgetRepository) CountBrands(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Gadget{}).Distinct("brand").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count brands: %w", err)
	}
	return count, nil
}
