package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/repository"
)

type Service interface {
	GetStats(ctx context.Context) (*domain.DashboardStats, error)
}

type service struct {
	statsRepo repository.StatsRepository
	cache     cache.Store
	logger    *zap.Logger
}

func NewService(statsRepo repository.StatsRepository, cacheStore cache.Store, logger *zap.Logger) Service {
	return &service{
		statsRepo: statsRepo,
		cache:     cacheStore,
		logger:    logger,
	}
}

func (s *service) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	cacheKey := cache.DashboardKey()

	var cached domain.DashboardStats
	err := s.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("dashboard cache unavailable", zap.Error(err))
	}

	stats, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = time.Now().UTC()

	if err := s.cache.Set(ctx, cacheKey, stats, cache.DashboardTTL); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return stats, nil
}
