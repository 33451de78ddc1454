package services

import (
	"context"
	"errors"
	"strings"

	"techgo/cache"
	"techgo/models"
	"techgo/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validate = validator.New()

type ReviewInput struct {
	UserName string
	Email    string
	Rating   int
	Comment  string
}

type ReviewPage struct {
	Reviews []models.Review
	Total   int64
	Page    int
	Size    int
}

// ReviewService owns the review set of each gadget and keeps the gadget's
// rating and review count in step with it.
type ReviewService struct {
	store *repositories.Store
	cache cache.Store
	now   Clock
}

func (in *ReviewInput) normalize() error {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)
	in.Comment = strings.TrimSpace(in.Comment)

	fields := map[string]string{}
	if in.UserName == "" {
		fields["userName"] = "Name is required"
	} else if tooLong(in.UserName, 100) {
		fields["userName"] = "Name must not exceed 100 characters"
	}
	if err := validate.Var(in.Email, "required,email,max=255"); err != nil {
		fields["email"] = "A valid email is required"
	}
	if in.Rating < 1 || in.Rating > 5 {
		fields["rating"] = "Rating must be between 1 and 5"
	}
	if tooLong(in.Comment, 1000) {
		fields["comment"] = "Comment must not exceed 1000 characters"
	}
	if len(fields) > 0 {
		return Validation("Invalid review", fields)
	}
	return nil
}

// AddReview stores a review and recomputes the gadget rating in the same
// transaction. One review per email and gadget.
func (s *ReviewService) AddReview(ctx context.Context, gadgetID uint, in ReviewInput) (*models.Review, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var review *models.Review
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Gadgets().FindByIDForUpdate(ctx, gadgetID); err != nil {
			return gadgetLookupError(err, gadgetID)
		}

		exists, err := tx.Reviews().ExistsByGadgetAndEmail(ctx, gadgetID, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return Duplicate("You have already reviewed this gadget")
		}

		review = &models.Review{
			GadgetID:  gadgetID,
			UserName:  in.UserName,
			Email:     in.Email,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: s.now(),
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, gadgetID)
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.cache)
	return review, nil
}

// DeleteReview removes a review and recomputes the gadget rating.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return reviewLookupError(err, reviewID)
		}
		if _, err := tx.Gadgets().FindByIDForUpdate(ctx, review.GadgetID); err != nil {
			return gadgetLookupError(err, review.GadgetID)
		}
		if err := tx.Reviews().Delete(ctx, reviewID); err != nil {
			return reviewLookupError(err, reviewID)
		}
		return recomputeRating(ctx, tx, review.GadgetID)
	})
	if err != nil {
		return err
	}

	invalidateCatalog(ctx, s.cache)
	return nil
}

// ListReviews pages through a gadget's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, gadgetID uint, minRating, page, size int) (*ReviewPage, error) {
	if err := CheckPage(page, size); err != nil {
		return nil, err
	}
	if minRating < 0 || minRating > 5 {
		return nil, Validation("Invalid filter", map[string]string{"minRating": "minRating must be between 1 and 5, or 0 for no filter"})
	}
	if _, err := s.store.Gadgets().FindByID(ctx, gadgetID); err != nil {
		return nil, gadgetLookupError(err, gadgetID)
	}
	return s.list(ctx, repositories.ReviewFilter{GadgetID: gadgetID, MinRating: minRating}, page, size)
}

// ListAllReviews is the moderation view over every gadget.
func (s *ReviewService) ListAllReviews(ctx context.Context, filter repositories.ReviewFilter, page, size int) (*ReviewPage, error) {
	if err := CheckPage(page, size); err != nil {
		return nil, err
	}
	if filter.Rating < 0 || filter.Rating > 5 {
		return nil, Validation("Invalid filter", map[string]string{"rating": "Rating must be between 1 and 5, or 0 for no filter"})
	}
	return s.list(ctx, filter, page, size)
}

func (s *ReviewService) list(ctx context.Context, filter repositories.ReviewFilter, page, size int) (*ReviewPage, error) {
	reviews, total, err := s.store.Reviews().List(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Reviews: reviews, Total: total, Page: page, Size: size}, nil
}

// RatingDistribution counts a gadget's reviews per star.
func (s *ReviewService) RatingDistribution(ctx context.Context, gadgetID uint) (map[int]int64, error) {
	if _, err := s.store.Gadgets().FindByID(ctx, gadgetID); err != nil {
		return nil, gadgetLookupError(err, gadgetID)
	}
	return s.store.Reviews().Distribution(ctx, gadgetID)
}

// recomputeRating must run inside the transaction that changed the reviews,
// after the gadget row has been locked.
func recomputeRating(ctx context.Context, tx *repositories.Store, gadgetID uint) error {
	totals, err := tx.Reviews().Totals(ctx, gadgetID)
	if err != nil {
		return err
	}
	rating := AverageRating(totals.Sum, totals.Count)
	if err := tx.Gadgets().UpdateRating(ctx, gadgetID, rating, int(totals.Count)); err != nil {
		return err
	}
	zap.L().Debug("gadget rating recomputed",
		zap.Uint("gadgetId", gadgetID),
		zap.String("rating", rating.StringFixed(2)),
		zap.Int64("reviews", totals.Count))
	return nil
}

// AverageRating is sum/count rounded half-up to two places, 0.00 when count is 0.
func AverageRating(sum, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}

func reviewLookupError(err error, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound("Review not found with id: %d", id)
	}
	return err
}
