package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
)

type ConversationRepository struct {
	mock.Mock
}

func (m *ConversationRepository) GetOrCreate(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, bool, error) {
	args := m.Called(ctx, conv)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Conversation), args.Bool(1), args.Error(2)
}

func (m *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *ConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Conversation, int64, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Conversation), args.Get(1).(int64), args.Error(2)
}

func (m *ConversationRepository) CreateMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message, preview string) error {
	args := m.Called(ctx, conv, msg, preview)
	return args.Error(0)
}

func (m *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	args := m.Called(ctx, conversationID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}

func (m *ConversationRepository) MarkRead(ctx context.Context, conv *domain.Conversation, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conv, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ConversationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
