package repositories

import (
	"context"
	"fmt"
	"time"

	"techgo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GadgetUsage counts how many comparison lists hold a gadget.
type GadgetUsage struct {
	GadgetID uint  `json:"gadgetId"`
	Total    int64 `json:"count"`
}

type Comparisons interface {
	Create(ctx context.Context, list *models.ComparisonList) error
	// FindByID loads the list together with its items in addedAt order.
	FindByID(ctx context.Context, id string) (*models.ComparisonList, error)
	// FindByIDForUpdate is FindByID with the list row locked until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*models.ComparisonList, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, item *models.ComparisonItem) error
	RemoveItem(ctx context.Context, comparisonID string, gadgetID uint) (bool, error)
	DeleteItemsByGadget(ctx context.Context, gadgetID uint) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	CountExpired(ctx context.Context, now time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	MostCompared(ctx context.Context, limit int) ([]GadgetUsage, error)
	// DeleteExpiredBefore removes lists whose expiry is before cutoff, items included.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type comparisonRepository struct {
	db *gorm.DB
}

var _ Comparisons = (*comparisonRepository)(nil)

func (r *comparisonRepository) Create(ctx context.Context, list *models.ComparisonList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("failed to create comparison: %w", err)
	}
	return nil
}

func (r *comparisonRepository) FindByID(ctx context.Context, id string) (*models.ComparisonList, error) {
	return r.load(ctx, r.db.WithContext(ctx), id)
}

func (r *comparisonRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.ComparisonList, error) {
	return r.load(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *comparisonRepository) load(ctx context.Context, q *gorm.DB, id string) (*models.ComparisonList, error) {
	var list models.ComparisonList
	if err := q.First(&list, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find comparison: %w", err)
	}

	list.Items = []models.ComparisonItem{}
	if err := r.db.WithContext(ctx).
		Where("comparison_id = ?", id).
		Order("added_at ASC, id ASC").
		Find(&list.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load comparison items: %w", err)
	}
	return &list, nil
}

func (r *comparisonRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("comparison_id = ?", id).Delete(&models.ComparisonItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete comparison items: %w", err)
	}
	result := r.db.WithContext(ctx).Delete(&models.ComparisonList{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete comparison: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *comparisonRepository) AddItem(ctx context.Context, item *models.ComparisonItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add comparison item: %w", err)
	}
	return nil
}

func (r *comparisonRepository) RemoveItem(ctx context.Context, comparisonID string, gadgetID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("comparison_id = ? AND gadget_id = ?", comparisonID, gadgetID).
		Delete(&models.ComparisonItem{})
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to remove comparison item: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func (r *comparisonRepository) DeleteItemsByGadget(ctx context.Context, gadgetID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("gadget_id = ?", gadgetID).Delete(&models.ComparisonItem{})
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("failed to delete comparison items: %w", err)
	}
	return result.RowsAffected, nil
}

func (r *comparisonRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	return r.count(ctx, "expires_at >= ?", now)
}

func (r *comparisonRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.count(ctx, "expires_at < ?", now)
}

func (r *comparisonRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, "created_at >= ?", since)
}

func (r *comparisonRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ComparisonList{}).Where(query, args...).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comparisons: %w", err)
	}
	return count, nil
}

func (r *comparisonRepository) MostCompared(ctx context.Context, limit int) ([]GadgetUsage, error) {
	usage := []GadgetUsage{}
	if err := r.db.WithContext(ctx).Model(&models.ComparisonItem{}).
		Select("gadget_id, COUNT(*) AS total").
		Group("gadget_id").
		Order("total DESC, gadget_id ASC").
		Limit(limit).
		Scan(&usage).Error; err != nil {
		return nil, fmt.Errorf("failed to rank compared gadgets: %w", err)
	}
	return usage, nil
}

func (r *comparisonRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	expired := r.db.WithContext(ctx).Model(&models.ComparisonList{}).Select("id").Where("expires_at < ?", cutoff)
	if err := r.db.WithContext(ctx).Where("comparison_id IN (?)", expired).Delete(&models.ComparisonItem{}).Error; err != nil {
		return 0, fmt.Errorf("failed to delete expired comparison items: %w", err)
	}

	result := r.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.ComparisonList{})
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("failed to delete expired comparisons: %w", err)
	}
	return result.RowsAffected, nil
}
