package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type TradeRepository struct {
	mock.Mock
}

func (m *TradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *TradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *TradeRepository) List(ctx context.Context, activeOnly bool) ([]domain.Trade, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *TradeRepository) Update(ctx context.Context, trade *domain.Trade) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *TradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type QuizRepository struct {
	mock.Mock
}

func (m *QuizRepository) CreateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *QuizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.QuizQuestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizQuestion), args.Error(1)
}

func (m *QuizRepository) ListQuestions(ctx context.Context, tradeID uuid.UUID) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

func (m *QuizRepository) RandomQuestions(ctx context.Context, tradeID uuid.UUID, limit int) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, tradeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

func (m *QuizRepository) GetQuestionsByIDs(ctx context.Context, tradeID uuid.UUID, ids []uuid.UUID) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, tradeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

func (m *QuizRepository) UpdateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *QuizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QuizRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *QuizRepository) ListAttempts(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}
