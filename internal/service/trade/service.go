package trade

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/slug"
	"servicehub/internal/repository"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrTradeExists   = errors.New("a trade with this name already exists")
	ErrNameRequired  = errors.New("trade name is required")
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Trade, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	Create(ctx context.Context, input domain.TradeInput) (*domain.Trade, error)
	Update(ctx context.Context, id uuid.UUID, input domain.TradeInput) (*domain.Trade, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	tradeRepo repository.TradeRepository
}

func NewService(tradeRepo repository.TradeRepository) Service {
	return &service{tradeRepo: tradeRepo}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]domain.Trade, error) {
	trades, err := s.tradeRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if trades == nil {
		trades = []domain.Trade{}
	}
	return trades, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	t, err := s.tradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTradeNotFound
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, input domain.TradeInput) (*domain.Trade, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	t := &domain.Trade{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: input.Description,
		GroupName:   input.GroupName,
		IsActive:    true,
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}

	if err := s.tradeRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTradeExists
		}
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.TradeInput) (*domain.Trade, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		t.Name = name
		t.Slug = slug.Make(name)
	}
	if input.Description != "" {
		t.Description = input.Description
	}
	if input.GroupName != "" {
		t.GroupName = input.GroupName
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}

	if err := s.tradeRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTradeExists
		}
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tradeRepo.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTradeNotFound
	}
	return err
}
