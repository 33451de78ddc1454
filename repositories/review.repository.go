package repositories

import (
	"context"
	"fmt"
	"time"

	"techgo/models"

	"gorm.io/gorm"
)

// ReviewFilter narrows review listings; zero values are ignored.
type ReviewFilter struct {
	GadgetID  uint
	Rating    int // exact star rating
	MinRating int
}

// RatingTotals is the aggregate the gadget rating is derived from.
type RatingTotals struct {
	Count int64
	Sum   int64
}

type Reviews interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Delete(ctx context.Context, id uint) error
	DeleteByGadget(ctx context.Context, gadgetID uint) error
	// List returns newest reviews first.
	List(ctx context.Context, filter ReviewFilter, page, size int) ([]models.Review, int64, error)
	ExistsByGadgetAndEmail(ctx context.Context, gadgetID uint, email string) (bool, error)
	Totals(ctx context.Context, gadgetID uint) (RatingTotals, error)
	Distribution(ctx context.Context, gadgetID uint) (map[int]int64, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

var _ Reviews = (*reviewRepository)(nil)

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) DeleteByGadget(ctx context.Context, gadgetID uint) error {
	if err := r.db.WithContext(ctx).Where("gadget_id = ?", gadgetID).Delete(&models.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	return nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter, page, size int) ([]models.Review, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Review{})
		if filter.GadgetID != 0 {
			q = q.Where("gadget_id = ?", filter.GadgetID)
		}
		if filter.Rating != 0 {
			q = q.Where("rating = ?", filter.Rating)
		}
		if filter.MinRating != 0 {
			q = q.Where("rating >= ?", filter.MinRating)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews := []models.Review{}
	if total == 0 {
		return reviews, 0, nil
	}
	if err := base().
		Order("created_at DESC, id DESC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// ExistsByGadgetAndEmail compares emails case-insensitively.
func (r *reviewRepository) ExistsByGadgetAndEmail(ctx context.Context, gadgetID uint, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("gadget_id = ? AND LOWER(email) = LOWER(?)", gadgetID, email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check review email: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) Totals(ctx context.Context, gadgetID uint) (RatingTotals, error) {
	var totals RatingTotals
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("gadget_id = ?", gadgetID).
		Scan(&totals).Error; err != nil {
		return RatingTotals{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return totals, nil
}

// Distribution counts reviews per star; every star 1..5 is present.
func (r *reviewRepository) Distribution(ctx context.Context, gadgetID uint) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS total").
		Where("gadget_id = ?", gadgetID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load rating distribution: %w", err)
	}

	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		dist[row.Rating] = row.Total
	}
	return dist, nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *reviewRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
