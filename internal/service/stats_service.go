package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hrga-tools/locker-api/internal/models"
	appErrors "github.com/hrga-tools/locker-api/pkg/errors"
)

const statsCacheKey = "locker:stats"

type statsLockerRepository interface {
	CountByStatus(ctx context.Context) (map[models.LockerStatus]int, error)
}

// StatsService serves the per-status locker occupancy snapshot. The snapshot
// is cached with a short TTL; writes do not invalidate it, so dashboards may
// lag mutations by at most the TTL.
type StatsService struct {
	lockers statsLockerRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatsService constructs the stats service.
func NewStatsService(lockers statsLockerRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *StatsService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{lockers: lockers, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// LockerStats returns the occupancy snapshot, served from cache when fresh.
func (s *StatsService) LockerStats(ctx context.Context) (*models.LockerStats, error) {
	var cached models.LockerStats
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	counts, err := s.lockers.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute locker stats")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("locker_stats", time.Since(start))
	}

	stats := &models.LockerStats{
		Available:    counts[models.LockerAvailable],
		Filled:       counts[models.LockerFilled],
		Overdue:      counts[models.LockerOverdue],
		Maintenance:  counts[models.LockerMaintenance],
		Unidentified: counts[models.LockerUnidentified],
	}
	for _, n := range counts {
		stats.Total += n
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("failed to cache locker stats", zap.Error(err))
		}
	}
	return stats, nil
}
