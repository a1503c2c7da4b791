package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type InterestRepository interface {
	// Create inserts the interest and bumps the job's interest counter in one transaction.
	Create(ctx context.Context, interest *domain.Interest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Interest, error)
	GetByJobAndTradesperson(ctx context.Context, jobID, tradespersonID uuid.UUID) (*domain.Interest, error)
	ListByTradesperson(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithJob, int64, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithTradesperson, int64, error)
	ListTradespersonIDsByJob(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error)
	ShareContact(ctx context.Context, id uuid.UUID) (*domain.Interest, error)
	PayAccess(ctx context.Context, id uuid.UUID, tx *domain.WalletTransaction) (*domain.AccessPayment, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type interestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) Create(ctx context.Context, interest *domain.Interest) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO interests (interest_id, job_id, tradesperson_id, homeowner_id, message, status,
				access_fee_naira, access_fee_coins)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query,
			interest.ID, interest.JobID, interest.TradespersonID, interest.HomeownerID, interest.Message,
			interest.Status, interest.AccessFeeNaira, interest.AccessFeeCoins,
		).Scan(&interest.CreatedAt, &interest.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE jobs SET interests_count = interests_count + 1 WHERE job_id = $1`, interest.JobID)
		return err
	})
}

func (r *interestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	var interest domain.Interest
	query := `SELECT * FROM interests WHERE interest_id = $1`

	err := r.db.GetContext(ctx, &interest, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *interestRepository) GetByJobAndTradesperson(ctx context.Context, jobID, tradespersonID uuid.UUID) (*domain.Interest, error) {
	var interest domain.Interest
	query := `SELECT * FROM interests WHERE job_id = $1 AND tradesperson_id = $2`

	err := r.db.GetContext(ctx, &interest, query, jobID, tradespersonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *interestRepository) ListByTradesperson(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithJob, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM interests WHERE tradesperson_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, tradespersonID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			i.*,
			j.title AS job_title,
			j.category AS job_category,
			j.location AS job_location,
			j.status AS job_status
		FROM interests i
		JOIN jobs j ON j.job_id = i.job_id
		WHERE i.tradesperson_id = $1
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3`

	var interests []domain.InterestWithJob
	err := r.db.SelectContext(ctx, &interests, query, tradespersonID, params.PageSize, params.Offset())
	return interests, total, err
}

func (r *interestRepository) ListByJob(ctx context.Context, jobID uuid.UUID, params domain.PaginationParams) ([]domain.InterestWithTradesperson, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM interests WHERE job_id = $1 AND status <> 'cancelled'`
	if err := r.db.GetContext(ctx, &total, countQuery, jobID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			i.*,
			u.name AS tradesperson_name,
			u.company_name AS tradesperson_company,
			u.experience_years AS tradesperson_experience,
			u.avatar_url AS tradesperson_avatar_url,
			u.is_verified AS tradesperson_verified
		FROM interests i
		JOIN users u ON u.user_id = i.tradesperson_id
		WHERE i.job_id = $1 AND i.status <> 'cancelled'
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3`

	var interests []domain.InterestWithTradesperson
	err := r.db.SelectContext(ctx, &interests, query, jobID, params.PageSize, params.Offset())
	return interests, total, err
}

func (r *interestRepository) ListTradespersonIDsByJob(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT tradesperson_id FROM interests WHERE job_id = $1 AND status <> 'cancelled'`
	err := r.db.SelectContext(ctx, &ids, query, jobID)
	return ids, err
}

func (r *interestRepository) ShareContact(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	var interest domain.Interest
	query := `
		UPDATE interests
		SET status = 'contact_shared', contact_shared_at = NOW(), updated_at = NOW()
		WHERE interest_id = $1 AND status = 'pending'
		RETURNING *`

	err := r.db.GetContext(ctx, &interest, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaleState
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// PayAccess debits the tradesperson's wallet, records the access fee transaction and
// moves the interest to paid_access. Either all three happen or none do.
func (r *interestRepository) PayAccess(ctx context.Context, id uuid.UUID, txn *domain.WalletTransaction) (*domain.AccessPayment, error) {
	payment := &domain.AccessPayment{Transaction: txn}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var interest domain.Interest
		err := tx.GetContext(ctx, &interest,
			`SELECT * FROM interests WHERE interest_id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleState
		}
		if err != nil {
			return fmt.Errorf("lock interest: %w", err)
		}
		if interest.Status != domain.InterestContactShared {
			return ErrStaleState
		}

		var balance int64
		err = tx.GetContext(ctx, &balance, `
			UPDATE wallets
			SET balance_coins = balance_coins - $2, updated_at = NOW()
			WHERE user_id = $1 AND balance_coins >= $2
			RETURNING balance_coins`, interest.TradespersonID, interest.AccessFeeCoins)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}

		txn.AmountCoins = interest.AccessFeeCoins
		txn.AmountNaira = interest.AccessFeeNaira
		if err := insertTransaction(ctx, tx, txn); err != nil {
			return fmt.Errorf("record access fee: %w", err)
		}

		err = tx.GetContext(ctx, &interest, `
			UPDATE interests
			SET status = 'paid_access', payment_made_at = NOW(), updated_at = NOW()
			WHERE interest_id = $1 AND status = 'contact_shared'
			RETURNING *`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleState
		}
		if err != nil {
			return err
		}

		payment.Interest = &interest
		payment.BalanceCoins = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *interestRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var jobID uuid.UUID
		err := tx.GetContext(ctx, &jobID, `
			UPDATE interests
			SET status = 'cancelled', updated_at = NOW()
			WHERE interest_id = $1 AND status = 'pending'
			RETURNING job_id`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleState
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE jobs SET interests_count = GREATEST(interests_count - 1, 0) WHERE job_id = $1`, jobID)
		return err
	})
}
