package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *domain.Trade) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Trade, error)
	Update(ctx context.Context, trade *domain.Trade) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepository(db *sqlx.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (trade_id, name, slug, description, group_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		trade.ID, trade.Name, trade.Slug, trade.Description, trade.GroupName, trade.IsActive,
	).Scan(&trade.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *tradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	var trade domain.Trade
	err := r.db.GetContext(ctx, &trade, `SELECT * FROM trades WHERE trade_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) List(ctx context.Context, activeOnly bool) ([]domain.Trade, error) {
	var trades []domain.Trade
	query := `SELECT * FROM trades WHERE (NOT $1 OR is_active) ORDER BY group_name, name`
	err := r.db.SelectContext(ctx, &trades, query, activeOnly)
	return trades, err
}

func (r *tradeRepository) Update(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET name = :name, slug = :slug, description = :description, group_name = :group_name, is_active = :is_active
		WHERE trade_id = :trade_id`

	_, err := r.db.NamedExecContext(ctx, query, trade)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *tradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
