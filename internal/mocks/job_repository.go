package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type JobRepository struct {
	mock.Mock
}

func (m *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *JobRepository) Approve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *JobRepository) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *JobRepository) UpdateAccessFee(ctx context.Context, id uuid.UUID, naira, coins int64) error {
	args := m.Called(ctx, id, naira, coins)
	return args.Error(0)
}

func (m *JobRepository) Search(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *JobRepository) ListByHomeowner(ctx context.Context, homeownerID uuid.UUID, status string, params domain.PaginationParams) ([]domain.Job, int64, error) {
	args := m.Called(ctx, homeownerID, status, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *JobRepository) ListPending(ctx context.Context, params domain.PaginationParams) ([]domain.Job, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}
