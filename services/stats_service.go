package services

import (
	"context"

	"techgo/cache"
	"techgo/models"
	"techgo/repositories"

	"github.com/jinzhu/now"
)

// TopCompared is a gadget ranked by how many lists hold it.
type TopCompared struct {
	GadgetID uint
	Name     string
	Brand    string
	Count    int64
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalGadgets        int64
	GadgetsByCategory   map[models.Category]int64
	TotalBrands         int64
	TotalReviews        int64
	ReviewsToday        int64
	ActiveComparisons   int64
	ExpiredComparisons  int64
	ComparisonsToday    int64
	MostComparedGadgets []TopCompared

	// Cache is nil unless the cache store reports its counters.
	Cache *cache.StatsSnapshot
}

type StatsService struct {
	store *repositories.Store
	cache cache.Store
	now   Clock
}

const topComparedLimit = 5

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	current := s.now()
	today := now.With(current).BeginningOfDay()
	gadgets := s.store.Gadgets()
	reviews := s.store.Reviews()
	comparisons := s.store.Comparisons()

	stats := &Stats{MostComparedGadgets: []TopCompared{}}
	var err error
	if stats.TotalGadgets, err = gadgets.Count(ctx); err != nil {
		return nil, err
	}
	if stats.GadgetsByCategory, err = gadgets.CountByCategory(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBrands, err = gadgets.CountBrands(ctx); err != nil {
		return nil, err
	}
	if stats.TotalReviews, err = reviews.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ReviewsToday, err = reviews.CountSince(ctx, today); err != nil {
		return nil, err
	}
	if stats.ActiveComparisons, err = comparisons.CountActive(ctx, current); err != nil {
		return nil, err
	}
	if stats.ExpiredComparisons, err = comparisons.CountExpired(ctx, current); err != nil {
		return nil, err
	}
	if stats.ComparisonsToday, err = comparisons.CountCreatedSince(ctx, today); err != nil {
		return nil, err
	}

	usage, err := comparisons.MostCompared(ctx, topComparedLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(usage))
	for _, u := range usage {
		ids = append(ids, u.GadgetID)
	}
	found, err := gadgets.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Gadget, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	for _, u := range usage {
		g := byID[u.GadgetID]
		stats.MostComparedGadgets = append(stats.MostComparedGadgets, TopCompared{
			GadgetID: u.GadgetID,
			Name:     g.Name,
			Brand:    g.Brand,
			Count:    u.Total,
		})
	}

	if r, ok := s.cache.(cache.Reporter); ok {
		snapshot := r.Snapshot()
		stats.Cache = &snapshot
	}
	return stats, nil
}
