package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/mocks"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/service/dashboard"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from cache", func(t *testing.T) {
		statsRepo := new(mocks.StatsRepository)
		store := new(mocks.CacheStore)
		svc := dashboard.NewService(statsRepo, store, zap.NewNop())

		store.On("Get", ctx, cache.DashboardKey(), mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.DashboardStats).PendingFunding = 4
			}).Return(nil).Once()

		stats, err := svc.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.PendingFunding)
		statsRepo.AssertNotCalled(t, "Dashboard", mock.Anything)
	})

	t.Run("computes and caches on miss", func(t *testing.T) {
		statsRepo := new(mocks.StatsRepository)
		store := new(mocks.CacheStore)
		svc := dashboard.NewService(statsRepo, store, zap.NewNop())

		fresh := &domain.DashboardStats{UsersByRole: map[string]int64{"homeowner": 3}}
		store.On("Get", ctx, cache.DashboardKey(), mock.Anything).Return(cache.ErrMiss).Once()
		statsRepo.On("Dashboard", ctx).Return(fresh, nil).Once()
		store.On("Set", ctx, cache.DashboardKey(), fresh, cache.DashboardTTL).Return(nil).Once()

		stats, err := svc.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.UsersByRole["homeowner"])
		assert.False(t, stats.GeneratedAt.IsZero())
		store.AssertExpectations(t)
	})
}
