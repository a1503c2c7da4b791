package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type StatsRepository interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	UserActivity(ctx context.Context, userID uuid.UUID) (jobs int64, interests int64, err error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

type groupCount struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	groups := []struct {
		query string
		dst   *map[string]int64
	}{
		{`SELECT role AS key, COUNT(*) AS count FROM users GROUP BY role`, &stats.UsersByRole},
		{`SELECT status AS key, COUNT(*) AS count FROM users GROUP BY status`, &stats.UsersByStatus},
		{`SELECT status AS key, COUNT(*) AS count FROM jobs GROUP BY status`, &stats.JobsByStatus},
		{`SELECT status AS key, COUNT(*) AS count FROM interests GROUP BY status`, &stats.InterestsByStatus},
		{`SELECT status AS key, COUNT(*) AS count FROM content_items GROUP BY status`, &stats.ContentByStatus},
	}

	for _, g := range groups {
		var rows []groupCount
		if err := r.db.SelectContext(ctx, &rows, g.query); err != nil {
			return nil, fmt.Errorf("dashboard counts: %w", err)
		}
		m := make(map[string]int64, len(rows))
		for _, row := range rows {
			m[row.Key] = row.Count
		}
		*g.dst = m
	}

	err := r.db.GetContext(ctx, &stats.PendingFunding,
		`SELECT COUNT(*) FROM wallet_transactions WHERE type = 'funding' AND status = 'pending'`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.AccessFeeRevenueCoin,
		`SELECT COALESCE(SUM(amount_coins), 0) FROM wallet_transactions WHERE type = 'access_fee' AND status = 'completed'`)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) UserActivity(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var jobs, interests int64
	if err := r.db.GetContext(ctx, &jobs, `SELECT COUNT(*) FROM jobs WHERE homeowner_id = $1`, userID); err != nil {
		return 0, 0, err
	}
	if err := r.db.GetContext(ctx, &interests, `SELECT COUNT(*) FROM interests WHERE tradesperson_id = $1`, userID); err != nil {
		return 0, 0, err
	}
	return jobs, interests, nil
}
