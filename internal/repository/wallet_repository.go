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

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) ([]domain.WalletTransaction, int64, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	CreateTransaction(ctx context.Context, txn *domain.WalletTransaction) error
	ListPendingFunding(ctx context.Context, params domain.PaginationParams) ([]domain.FundingRequest, int64, error)
	// ConfirmFunding completes a pending funding transaction and credits the wallet atomically.
	ConfirmFunding(ctx context.Context, id, adminID uuid.UUID) (*domain.WalletTransaction, int64, error)
	RejectFunding(ctx context.Context, id, adminID uuid.UUID, reason string) (*domain.WalletTransaction, error)
}

type walletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &wallet, `SELECT * FROM wallets WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) ([]domain.WalletTransaction, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1 AND ($2::text = '' OR type = $2::text)`
	if err := r.db.GetContext(ctx, &total, countQuery, userID, txType); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM wallet_transactions
		WHERE user_id = $1 AND ($2::text = '' OR type = $2::text)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var txns []domain.WalletTransaction
	err := r.db.SelectContext(ctx, &txns, query, userID, txType, params.PageSize, params.Offset())
	return txns, total, err
}

func (r *walletRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	var txn domain.WalletTransaction
	err := r.db.GetContext(ctx, &txn, `SELECT * FROM wallet_transactions WHERE transaction_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, txn *domain.WalletTransaction) error {
	return insertTransaction(ctx, r.db, txn)
}

func (r *walletRepository) ListPendingFunding(ctx context.Context, params domain.PaginationParams) ([]domain.FundingRequest, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM wallet_transactions WHERE type = 'funding' AND status = 'pending'`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT t.*, u.name AS user_name, u.email AS user_email
		FROM wallet_transactions t
		JOIN users u ON u.user_id = t.user_id
		WHERE t.type = 'funding' AND t.status = 'pending'
		ORDER BY t.created_at ASC
		LIMIT $1 OFFSET $2`

	var requests []domain.FundingRequest
	err := r.db.SelectContext(ctx, &requests, query, params.PageSize, params.Offset())
	return requests, total, err
}

func (r *walletRepository) ConfirmFunding(ctx context.Context, id, adminID uuid.UUID) (*domain.WalletTransaction, int64, error) {
	var txn domain.WalletTransaction
	var balance int64

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &txn, `
			UPDATE wallet_transactions
			SET status = 'completed', processed_by = $2, processed_at = NOW()
			WHERE transaction_id = $1 AND type = 'funding' AND status = 'pending'
			RETURNING *`, id, adminID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStaleState
		}
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &balance, `
			INSERT INTO wallets (user_id, balance_coins) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE
			SET balance_coins = wallets.balance_coins + EXCLUDED.balance_coins, updated_at = NOW()
			RETURNING balance_coins`, txn.UserID, txn.AmountCoins)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &txn, balance, nil
}

func (r *walletRepository) RejectFunding(ctx context.Context, id, adminID uuid.UUID, reason string) (*domain.WalletTransaction, error) {
	var txn domain.WalletTransaction
	err := r.db.GetContext(ctx, &txn, `
		UPDATE wallet_transactions
		SET status = 'rejected', processed_by = $2, processed_at = NOW(),
			description = CASE WHEN $3::text = '' THEN description ELSE description || ' (rejected: ' || $3::text || ')' END
		WHERE transaction_id = $1 AND type = 'funding' AND status = 'pending'
		RETURNING *`, id, adminID, reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaleState
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func insertTransaction(ctx context.Context, exec sqlx.QueryerContext, txn *domain.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (transaction_id, user_id, type, amount_coins, amount_naira, status,
			description, reference, job_id, interest_id, proof_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := exec.QueryRowxContext(ctx, query,
		txn.ID, txn.UserID, txn.Type, txn.AmountCoins, txn.AmountNaira, txn.Status,
		txn.Description, txn.Reference, txn.JobID, txn.InterestID, txn.ProofURL,
	).Scan(&txn.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
