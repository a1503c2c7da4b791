package trade_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"servicehub/internal/domain"
	"servicehub/internal/mocks"
	"servicehub/internal/repository"
	"servicehub/internal/service/trade"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("slugs the trimmed name and defaults to active", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(tr *domain.Trade) bool {
			return tr.Name == "Air Conditioning" && tr.Slug == "air-conditioning" && tr.IsActive
		})).Return(nil).Once()

		created, err := svc.Create(ctx, domain.TradeInput{Name: "  Air Conditioning ", GroupName: "HVAC"})

		require.NoError(t, err)
		assert.Equal(t, "HVAC", created.GroupName)
		repo.AssertExpectations(t)
	})

	t.Run("explicit inactive", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		inactive := false
		repo.On("Create", ctx, mock.MatchedBy(func(tr *domain.Trade) bool { return !tr.IsActive })).Return(nil).Once()

		_, err := svc.Create(ctx, domain.TradeInput{Name: "Roofing", IsActive: &inactive})

		require.NoError(t, err)
	})

	t.Run("name required", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)

		_, err := svc.Create(ctx, domain.TradeInput{Name: "   "})

		assert.ErrorIs(t, err, trade.ErrNameRequired)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.Create(ctx, domain.TradeInput{Name: "Plumbing"})

		assert.ErrorIs(t, err, trade.ErrTradeExists)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		repo.On("GetByID", ctx, id).Return(&domain.Trade{ID: id, Name: "Plumbing", Slug: "plumbing", GroupName: "Water", IsActive: true}, nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.Update(ctx, id, domain.TradeInput{Description: "Pipes and fittings"})

		require.NoError(t, err)
		assert.Equal(t, "Plumbing", updated.Name)
		assert.Equal(t, "plumbing", updated.Slug)
		assert.Equal(t, "Water", updated.GroupName)
		assert.Equal(t, "Pipes and fittings", updated.Description)
	})

	t.Run("rename reslugs", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		repo.On("GetByID", ctx, id).Return(&domain.Trade{ID: id, Name: "Plumbing", Slug: "plumbing"}, nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.Update(ctx, id, domain.TradeInput{Name: "Gas Fitting"})

		require.NoError(t, err)
		assert.Equal(t, "gas-fitting", updated.Slug)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mocks.TradeRepository)
		svc := trade.NewService(repo)
		repo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := svc.Update(ctx, id, domain.TradeInput{Name: "x"})

		assert.ErrorIs(t, err, trade.ErrTradeNotFound)
	})
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.TradeRepository)
	svc := trade.NewService(repo)

	repo.On("List", ctx, true).Return(nil, nil).Once()
	trades, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)

	id := uuid.New()
	repo.On("Delete", ctx, id).Return(sql.ErrNoRows).Once()
	assert.ErrorIs(t, svc.Delete(ctx, id), trade.ErrTradeNotFound)
}
