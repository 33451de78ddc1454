package utils

import (
	"context"
	"time"

	"techgo/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitializeComparisonScheduler starts the sweep of expired comparison lists
// on spec. Lists are kept for retentionDays after they expire.
func InitializeComparisonScheduler(svc *services.Services, spec string, retentionDays int) (*cron.Cron, error) {
	log := zap.L().Named("comparison-scheduler")
	log.Info("initializing comparison scheduler", zap.String("cron", spec), zap.Int("retentionDays", retentionDays))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		log.Info("running expired comparison sweep")
		SweepExpiredComparisons(context.Background(), svc, retentionDays)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("comparison scheduler started")
	return c, nil
}

// SweepExpiredComparisons deletes lists whose expiry lies more than
// retentionDays in the past and returns how many were removed.
func SweepExpiredComparisons(ctx context.Context, svc *services.Services, retentionDays int) int64 {
	cutoff := svc.Comparisons.Now().AddDate(0, 0, -retentionDays)

	deleted, err := svc.Comparisons.PurgeExpired(ctx, cutoff)
	if err != nil {
		zap.L().Error("expired comparison sweep failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0
	}

	zap.L().Info("expired comparisons removed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return deleted
}
