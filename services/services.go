// Package services holds the catalog, review and comparison rules. Every
// operation runs in one transaction and reports expected failures as *Error.
package services

import (
	"context"
	"time"

	"techgo/cache"
	"techgo/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize   = 20
	DefaultSearchSize = 10
	MaxPageSize       = 100
	DefaultFeatured   = 6
	MaxFeatured       = 50
)

// Clock supplies the current time; tests swap it for a fixed one.
type Clock func() time.Time

// SystemClock returns UTC time truncated to milliseconds so stored and
// in-memory timestamps compare equal on every driver.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Services bundles the services the HTTP layer and scheduler use.
type Services struct {
	Gadgets     *GadgetService
	Reviews     *ReviewService
	Comparisons *ComparisonService
	Stats       *StatsService

	store *repositories.Store
	cache cache.Store
}

// New wires every service over db. A nil cache disables caching.
func New(db *gorm.DB, c cache.Store) *Services {
	if c == nil {
		c = cache.Noop{}
	}
	store := repositories.NewStore(db)
	s := &Services{
		Gadgets:     &GadgetService{store: store, cache: c, now: SystemClock},
		Reviews:     &ReviewService{store: store, cache: c, now: SystemClock},
		Comparisons: &ComparisonService{store: store, now: SystemClock},
		Stats:       &StatsService{store: store, cache: c, now: SystemClock},
		store:       store,
		cache:       c,
	}
	return s
}

// SetClock replaces the clock of every service.
func (s *Services) SetClock(clock Clock) {
	s.Gadgets.now = clock
	s.Reviews.now = clock
	s.Comparisons.now = clock
	s.Stats.now = clock
}

// Health pings the database and the cache.
func (s *Services) Health(ctx context.Context) map[string]string {
	status := map[string]string{"database": "up", "cache": "up"}

	sqlDB, err := s.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		zap.L().Warn("database health check failed", zap.Error(err))
		status["database"] = "down"
	}

	if _, ok := s.cache.(cache.Noop); ok {
		status["cache"] = "disabled"
	} else if err := s.cache.Ping(ctx); err != nil {
		zap.L().Warn("cache health check failed", zap.Error(err))
		status["cache"] = "down"
	}
	return status
}

// CheckPage validates zero-indexed pagination parameters.
func CheckPage(page, size int) error {
	fields := map[string]string{}
	if page < 0 {
		fields["page"] = "Page must be zero or greater"
	}
	if size < 1 || size > MaxPageSize {
		fields["size"] = "Size must be between 1 and 100"
	}
	if len(fields) > 0 {
		return Validation("Invalid pagination parameters", fields)
	}
	return nil
}

// invalidateCatalog drops cached brand and featured lists after a catalog
// or rating change. Cache failures are logged, never returned.
func invalidateCatalog(ctx context.Context, c cache.Store) {
	for _, pattern := range []string{"brands:*", "featured:*"} {
		if err := c.DeletePattern(ctx, pattern); err != nil {
			zap.L().Warn("catalog cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
