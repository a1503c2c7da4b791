package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type InterestRepository struct {
	mock.Mock
}

func (m *InterestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	args := m.Called(ctx, interest)
	return args.Error(0)
}

func (m *InterestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *InterestRepository) GetByJobAndTradesperson(ctx context.Context, jobID, tradespersonID uuid.UUID) (*domain.Interest, error) {
	args := m.Called(ctx, jobID, tradespersonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *InterestRepository) ListByTradesperson(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithJob, int64, error) {
	args := m.Called(ctx, tradespersonID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.InterestWithJob), args.Get(1).(int64), args.Error(2)
}

func (m *InterestRepository) ListByJob(ctx context.Context, jobID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithTradesperson, int64, error) {
	args := m.Called(ctx, jobID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.InterestWithTradesperson), args.Get(1).(int64), args.Error(2)
}

func (m *InterestRepository) ListTradespersonIDsByJob(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *InterestRepository) ShareContact(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *InterestRepository) PayAccess(ctx context.Context, id uuid.UUID, tx *domain.WalletTransaction) (*domain.AccessPayment, error) {
	args := m.Called(ctx, id, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessPayment), args.Error(1)
}

func (m *InterestRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
