package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"techgo/cache"
	"techgo/models"
	"techgo/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GadgetInput carries the editable gadget columns.
type GadgetInput struct {
	Name        string
	Brand       string
	Category    models.Category
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

type SpecInput struct {
	Name  string
	Value string
}

// GadgetDetail is a gadget with its specifications.
type GadgetDetail struct {
	Gadget         models.Gadget
	Specifications []models.GadgetSpecification
}

// GadgetPage is one page of a gadget listing.
type GadgetPage struct {
	Gadgets []models.Gadget
	Total   int64
	Page    int
	Size    int
}

type GadgetService struct {
	store *repositories.Store
	cache cache.Store
	group singleflight.Group
	now   Clock
}

func (in *GadgetInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Gadget name is required"
	} else if tooLong(in.Name, 255) {
		fields["name"] = "Gadget name must not exceed 255 characters"
	}
	if in.Brand == "" {
		fields["brand"] = "Brand is required"
	} else if tooLong(in.Brand, 100) {
		fields["brand"] = "Brand must not exceed 100 characters"
	}
	if tooLong(in.Description, 1000) {
		fields["description"] = "Description must not exceed 1000 characters"
	}
	if tooLong(in.ImageURL, 500) {
		fields["imageUrl"] = "Image URL must not exceed 500 characters"
	}
	if !in.Category.Valid() {
		fields["category"] = "Category must be one of mobiles, laptops, tablets, earphones, speakers"
	}
	if !in.Price.IsPositive() {
		fields["price"] = "Price must be greater than 0"
	}
	if len(fields) > 0 {
		return Validation("Invalid gadget", fields)
	}
	in.Price = in.Price.Round(2)
	return nil
}

// Create stores a gadget and its specifications. (name, brand) must be
// unique and spec names must not repeat. The unique index settles races the
// existence check cannot see.
func (s *GadgetService) Create(ctx context.Context, in GadgetInput, specs []SpecInput) (*GadgetDetail, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(specs))
	for i := range specs {
		specs[i].Name = strings.TrimSpace(specs[i].Name)
		if specs[i].Name == "" || tooLong(specs[i].Name, 100) {
			return nil, Validation("Invalid specification", map[string]string{"specifications": "Specification name is required and must not exceed 100 characters"})
		}
		if seen[specs[i].Name] {
			return nil, Duplicate("Specification '%s' is listed more than once", specs[i].Name)
		}
		seen[specs[i].Name] = true
	}

	detail := &GadgetDetail{}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		exists, err := tx.Gadgets().ExistsByNameAndBrand(ctx, in.Name, in.Brand, 0)
		if err != nil {
			return err
		}
		if exists {
			return Duplicate("Gadget '%s' by %s already exists", in.Name, in.Brand)
		}

		now := s.now()
		gadget := models.Gadget{
			Name:        in.Name,
			Brand:       in.Brand,
			Category:    in.Category,
			Price:       in.Price,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Rating:      decimal.Zero,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Gadgets().Create(ctx, &gadget); err != nil {
			return gadgetWriteError(err, in)
		}

		rows := make([]*models.GadgetSpecification, 0, len(specs))
		for _, spec := range specs {
			rows = append(rows, &models.GadgetSpecification{
				GadgetID:  gadget.ID,
				SpecName:  spec.Name,
				SpecValue: spec.Value,
				CreatedAt: now,
			})
		}
		if err := tx.Specifications().Create(ctx, rows...); err != nil {
			return err
		}

		detail.Gadget = gadget
		detail.Specifications = make([]models.GadgetSpecification, 0, len(rows))
		for _, row := range rows {
			detail.Specifications = append(detail.Specifications, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.cache)
	zap.L().Info("gadget created", zap.Uint("gadgetId", detail.Gadget.ID), zap.String("name", detail.Gadget.Name))
	return detail, nil
}

// Update overwrites the editable columns. Rating, review count and
// specifications are untouched.
func (s *GadgetService) Update(ctx context.Context, id uint, in GadgetInput) (*GadgetDetail, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	detail := &GadgetDetail{}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		gadget, err := tx.Gadgets().FindByIDForUpdate(ctx, id)
		if err != nil {
			return gadgetLookupError(err, id)
		}

		exists, err := tx.Gadgets().ExistsByNameAndBrand(ctx, in.Name, in.Brand, id)
		if err != nil {
			return err
		}
		if exists {
			return Duplicate("Gadget '%s' by %s already exists", in.Name, in.Brand)
		}

		gadget.Name = in.Name
		gadget.Brand = in.Brand
		gadget.Category = in.Category
		gadget.Price = in.Price
		gadget.Description = in.Description
		gadget.ImageURL = in.ImageURL
		gadget.UpdatedAt = s.now()
		if err := tx.Gadgets().Update(ctx, gadget); err != nil {
			return gadgetWriteError(err, in)
		}

		specs, err := tx.Specifications().ListByGadget(ctx, id)
		if err != nil {
			return err
		}
		detail.Gadget = *gadget
		detail.Specifications = specs
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, s.cache)
	return detail, nil
}

// Delete removes the gadget with its specifications and reviews, and drops
// it from every comparison list holding it.
func (s *GadgetService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Gadgets().FindByIDForUpdate(ctx, id); err != nil {
			return gadgetLookupError(err, id)
		}
		if err := tx.Specifications().DeleteByGadget(ctx, id); err != nil {
			return err
		}
		if err := tx.Reviews().DeleteByGadget(ctx, id); err != nil {
			return err
		}
		removed, err := tx.Comparisons().DeleteItemsByGadget(ctx, id)
		if err != nil {
			return err
		}
		if removed > 0 {
			zap.L().Info("gadget removed from comparisons", zap.Uint("gadgetId", id), zap.Int64("lists", removed))
		}
		return tx.Gadgets().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	invalidateCatalog(ctx, s.cache)
	return nil
}

// FindByNameAndBrand returns the gadget with exactly this name and brand.
func (s *GadgetService) FindByNameAndBrand(ctx context.Context, name, brand string) (*models.Gadget, error) {
	name, brand = strings.TrimSpace(name), strings.TrimSpace(brand)
	gadget, err := s.store.Gadgets().FindByNameAndBrand(ctx, name, brand)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Gadget '%s' by %s not found", name, brand)
	}
	return gadget, err
}

func (s *GadgetService) Get(ctx context.Context, id uint) (*GadgetDetail, error) {
	gadget, err := s.store.Gadgets().FindByID(ctx, id)
	if err != nil {
		return nil, gadgetLookupError(err, id)
	}
	specs, err := s.store.Specifications().ListByGadget(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GadgetDetail{Gadget: *gadget, Specifications: specs}, nil
}

// List is the general catalog listing with every filter optional.
func (s *GadgetService) List(ctx context.Context, filter repositories.GadgetFilter, sort repositories.SortBy, page, size int) (*GadgetPage, error) {
	if err := CheckPage(page, size); err != nil {
		return nil, err
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, Validation("Invalid filter", map[string]string{"category": "Unknown category"})
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, Validation("Invalid filter", map[string]string{"minPrice": "minPrice must not exceed maxPrice"})
	}

	gadgets, total, err := s.store.Gadgets().Search(ctx, filter, sort, page, size)
	if err != nil {
		return nil, err
	}
	return &GadgetPage{Gadgets: gadgets, Total: total, Page: page, Size: size}, nil
}

// Search is the name search behind /gadgets/search; q must not be blank.
func (s *GadgetService) Search(ctx context.Context, q string, category models.Category, brand string, page, size int) (*GadgetPage, error) {
	if strings.TrimSpace(q) == "" {
		return nil, Validation("Search query is required", map[string]string{"q": "Search query must not be blank"})
	}
	filter := repositories.GadgetFilter{Name: q, Category: category, Brand: brand}
	return s.List(ctx, filter, repositories.SortID, page, size)
}

// Featured returns up to limit gadgets rated 4.0 or higher, best first.
func (s *GadgetService) Featured(ctx context.Context, category models.Category, limit int) ([]models.Gadget, error) {
	if limit <= 0 {
		limit = DefaultFeatured
	}
	if limit > MaxFeatured {
		limit = MaxFeatured
	}
	key := fmt.Sprintf("featured:%s:%d", categoryKey(category), limit)
	return cached(ctx, s, key, func(ctx context.Context) ([]models.Gadget, error) {
		gadgets, _, err := s.store.Gadgets().Search(ctx, repositories.GadgetFilter{Category: category}, repositories.SortFeatured, 0, limit)
		return gadgets, err
	})
}

func (s *GadgetService) Latest(ctx context.Context, limit int) ([]models.Gadget, error) {
	return s.top(ctx, repositories.SortLatest, limit)
}

func (s *GadgetService) Popular(ctx context.Context, limit int) ([]models.Gadget, error) {
	return s.top(ctx, repositories.SortPopular, limit)
}

func (s *GadgetService) top(ctx context.Context, sort repositories.SortBy, limit int) ([]models.Gadget, error) {
	if limit <= 0 {
		limit = DefaultFeatured
	}
	if limit > MaxFeatured {
		limit = MaxFeatured
	}
	gadgets, _, err := s.store.Gadgets().Search(ctx, repositories.GadgetFilter{}, sort, 0, limit)
	return gadgets, err
}

// Brands lists distinct brands in ascending order, optionally per category.
func (s *GadgetService) Brands(ctx context.Context, category models.Category) ([]string, error) {
	return cached(ctx, s, "brands:"+categoryKey(category), func(ctx context.Context) ([]string, error) {
		return s.store.Gadgets().Brands(ctx, category)
	})
}

// AddSpecification attaches a named attribute; names are unique per gadget.
func (s *GadgetService) AddSpecification(ctx context.Context, gadgetID uint, in SpecInput) (*models.GadgetSpecification, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || tooLong(in.Name, 100) {
		return nil, Validation("Invalid specification", map[string]string{"specName": "Specification name is required and must not exceed 100 characters"})
	}

	var spec *models.GadgetSpecification
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Gadgets().FindByIDForUpdate(ctx, gadgetID); err != nil {
			return gadgetLookupError(err, gadgetID)
		}
		exists, err := tx.Specifications().ExistsByName(ctx, gadgetID, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return Duplicate("Specification '%s' already exists for this gadget", in.Name)
		}
		spec = &models.GadgetSpecification{GadgetID: gadgetID, SpecName: in.Name, SpecValue: in.Value, CreatedAt: s.now()}
		return tx.Specifications().Create(ctx, spec)
	})
	if err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *GadgetService) ListSpecifications(ctx context.Context, gadgetID uint) ([]models.GadgetSpecification, error) {
	if _, err := s.store.Gadgets().FindByID(ctx, gadgetID); err != nil {
		return nil, gadgetLookupError(err, gadgetID)
	}
	return s.store.Specifications().ListByGadget(ctx, gadgetID)
}

// cached is a cache-aside read; concurrent misses for one key share a
// single database load. The shared load outlives the caller that started
// it, so one cancelled request does not fail the others waiting on it.
func cached[T any](ctx context.Context, s *GadgetService, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	hit, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return value, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		loaded, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(loadCtx, key, loaded); err != nil {
			zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
		return loaded, nil
	})
	if err != nil {
		return value, err
	}
	return v.(T), nil
}

func tooLong(value string, max int) bool {
	return utf8.RuneCountInString(value) > max
}

func categoryKey(c models.Category) string {
	if c == "" {
		return "all"
	}
	return string(c)
}

func gadgetWriteError(err error, in GadgetInput) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return Duplicate("Gadget '%s' by %s already exists", in.Name, in.Brand)
	}
	return err
}

func gadgetLookupError(err error, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound("Gadget not found with id: %d", id)
	}
	return err
}
