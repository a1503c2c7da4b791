package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type WalletRepository struct {
	mock.Mock
}

func (m *WalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *WalletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) ([]domain.WalletTransaction, int64, error) {
	args := m.Called(ctx, userID, txType, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *WalletRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}

func (m *WalletRepository) CreateTransaction(ctx context.Context, txn *domain.WalletTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *WalletRepository) ListPendingFunding(ctx context.Context, params domain.PaginationParams) ([]domain.FundingRequest, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.FundingRequest), args.Get(1).(int64), args.Error(2)
}

func (m *WalletRepository) ConfirmFunding(ctx context.Context, id, adminID uuid.UUID) (*domain.WalletTransaction, int64, error) {
	args := m.Called(ctx, id, adminID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *WalletRepository) RejectFunding(ctx context.Context, id, adminID uuid.UUID, reason string) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, id, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}
