package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"techgo/models"
	"techgo/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ComparisonDetail is a list with the gadgets its items point at.
type ComparisonDetail struct {
	List    models.ComparisonList
	Gadgets map[uint]models.Gadget
}

// CompareRow holds one specification across the compared gadgets; Values
// follows the gadget order and is "" where a gadget has no such entry.
type CompareRow struct {
	SpecName string
	Values   []string
}

// CompareView is the side-by-side data for a list.
type CompareView struct {
	List           models.ComparisonList
	Gadgets        []models.Gadget
	Specifications map[uint][]models.GadgetSpecification
	Rows           []CompareRow
}

// ComparisonService manages short-lived comparison lists. A list holds at
// most models.ComparisonCapacity gadgets and turns read-only once expired.
type ComparisonService struct {
	store *repositories.Store
	now   Clock
}

// Now is the service clock, used by callers to render expiry fields.
func (s *ComparisonService) Now() time.Time {
	return s.now()
}

// CreateComparison starts an empty list that expires seven days from now.
func (s *ComparisonService) CreateComparison(ctx context.Context, name string) (*models.ComparisonList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validation("Invalid comparison", map[string]string{"name": "Comparison name is required"})
	}
	if tooLong(name, 255) {
		return nil, Validation("Invalid comparison", map[string]string{"name": "Comparison name must not exceed 255 characters"})
	}

	now := s.now()
	list := &models.ComparisonList{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(models.ComparisonTTL),
		Items:     []models.ComparisonItem{},
	}
	if err := s.store.Comparisons().Create(ctx, list); err != nil {
		return nil, err
	}

	zap.L().Info("comparison created", zap.String("comparisonId", list.ID), zap.Time("expiresAt", list.ExpiresAt))
	return list, nil
}

// AddGadget puts a gadget on the list. Adding a member again returns the
// existing item with created=false. The list row stays locked from the
// expiry check to the insert, so concurrent adds cannot exceed capacity.
func (s *ComparisonService) AddGadget(ctx context.Context, listID string, gadgetID uint) (*models.ComparisonItem, bool, error) {
	var (
		item    *models.ComparisonItem
		created bool
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		list, err := tx.Comparisons().FindByIDForUpdate(ctx, listID)
		if err != nil {
			return comparisonLookupError(err, listID)
		}
		if _, err := tx.Gadgets().FindByID(ctx, gadgetID); err != nil {
			return gadgetLookupError(err, gadgetID)
		}

		now := s.now()
		if list.IsExpired(now) {
			return Expired("Comparison list has expired")
		}
		if existing, ok := list.Item(gadgetID); ok {
			item = existing
			return nil
		}
		if len(list.Items) >= models.ComparisonCapacity {
			return Capacity("Comparison list already holds the maximum of %d gadgets", models.ComparisonCapacity)
		}

		item = &models.ComparisonItem{ComparisonID: list.ID, GadgetID: gadgetID, AddedAt: now}
		if err := tx.Comparisons().AddItem(ctx, item); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

// RemoveGadget reports whether the gadget was on the list.
func (s *ComparisonService) RemoveGadget(ctx context.Context, listID string, gadgetID uint) (bool, error) {
	var removed bool
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		list, err := tx.Comparisons().FindByIDForUpdate(ctx, listID)
		if err != nil {
			return comparisonLookupError(err, listID)
		}
		if list.IsExpired(s.now()) {
			return Expired("Comparison list has expired")
		}
		removed, err = tx.Comparisons().RemoveItem(ctx, listID, gadgetID)
		return err
	})
	return removed, err
}

// GetComparison loads a list with its gadgets. Expired lists stay readable.
func (s *ComparisonService) GetComparison(ctx context.Context, listID string) (*ComparisonDetail, error) {
	list, err := s.store.Comparisons().FindByID(ctx, listID)
	if err != nil {
		return nil, comparisonLookupError(err, listID)
	}

	gadgets, err := s.store.Gadgets().FindByIDs(ctx, itemGadgetIDs(list))
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Gadget, len(gadgets))
	for _, g := range gadgets {
		byID[g.ID] = g
	}
	return &ComparisonDetail{List: *list, Gadgets: byID}, nil
}

// DeleteComparison removes a list and its items.
func (s *ComparisonService) DeleteComparison(ctx context.Context, listID string) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		return tx.Comparisons().Delete(ctx, listID)
	})
	return comparisonLookupError(err, listID)
}

// CompareView lines up the specifications of every gadget on the list.
// Gadgets keep the order they were added in; spec names are sorted.
func (s *ComparisonService) CompareView(ctx context.Context, listID string) (*CompareView, error) {
	detail, err := s.GetComparison(ctx, listID)
	if err != nil {
		return nil, err
	}

	view := &CompareView{List: detail.List, Gadgets: []models.Gadget{}, Specifications: map[uint][]models.GadgetSpecification{}, Rows: []CompareRow{}}
	for _, item := range detail.List.Items {
		if g, ok := detail.Gadgets[item.GadgetID]; ok {
			view.Gadgets = append(view.Gadgets, g)
		}
	}
	if len(view.Gadgets) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(view.Gadgets))
	for _, g := range view.Gadgets {
		ids = append(ids, g.ID)
	}
	specs, err := s.store.Specifications().ListByGadgets(ctx, ids)
	if err != nil {
		return nil, err
	}

	values := map[string]map[uint]string{}
	for _, spec := range specs {
		view.Specifications[spec.GadgetID] = append(view.Specifications[spec.GadgetID], spec)
		if values[spec.SpecName] == nil {
			values[spec.SpecName] = map[uint]string{}
		}
		values[spec.SpecName][spec.GadgetID] = spec.SpecValue
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		row := CompareRow{SpecName: name, Values: make([]string, len(view.Gadgets))}
		for i, g := range view.Gadgets {
			row.Values[i] = values[name][g.ID]
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// PurgeExpired deletes lists whose expiry lies before cutoff.
func (s *ComparisonService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		deleted, err = tx.Comparisons().DeleteExpiredBefore(ctx, cutoff)
		return err
	})
	return deleted, err
}

func itemGadgetIDs(list *models.ComparisonList) []uint {
	ids := make([]uint, 0, len(list.Items))
	for _, item := range list.Items {
		ids = append(ids, item.GadgetID)
	}
	return ids
}

func comparisonLookupError(err error, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound("Comparison not found with id: %s", id)
	}
	return err
}
