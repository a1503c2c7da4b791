package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/storage"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrAmountTooLow    = errors.New("funding amount is below the minimum")
	ErrProofRequired   = errors.New("proof of payment is required")
	ErrInvalidProof    = errors.New("proof of payment must be an image or PDF")
	ErrInvalidTxFilter = errors.New("invalid transaction type")
)

type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error)
	Transactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) (domain.PaginatedResponse[domain.WalletTransaction], error)
	RequestFunding(ctx context.Context, userID uuid.UUID, input FundingInput) (*domain.WalletTransaction, error)
	CheckAccess(ctx context.Context, userID, jobID uuid.UUID) (*domain.AccessCheck, error)
}

// FundingInput carries a funding request and its uploaded proof of payment.
type FundingInput struct {
	AmountNaira int64
	FileName    string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type service struct {
	walletRepo repository.WalletRepository
	jobRepo    repository.JobRepository
	storage    storage.Storage
	cfg        *config.Config
	logger     *zap.Logger
}

func NewService(walletRepo repository.WalletRepository, jobRepo repository.JobRepository, store storage.Storage, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		walletRepo: walletRepo,
		jobRepo:    jobRepo,
		storage:    store,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error) {
	w, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.WalletBalance{
		UserID:       userID,
		BalanceCoins: w.BalanceCoins,
		BalanceNaira: w.BalanceCoins * s.cfg.CoinValueNaira,
		CoinValue:    s.cfg.CoinValueNaira,
	}, nil
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) (domain.PaginatedResponse[domain.WalletTransaction], error) {
	switch domain.TransactionType(txType) {
	case "", domain.TxFunding, domain.TxAccessFee, domain.TxRefund, domain.TxAdjustment:
	default:
		return domain.PaginatedResponse[domain.WalletTransaction]{}, ErrInvalidTxFilter
	}

	txns, total, err := s.walletRepo.ListTransactions(ctx, userID, txType, params)
	if err != nil {
		return domain.PaginatedResponse[domain.WalletTransaction]{}, err
	}
	return domain.NewPaginatedResponse(txns, params, total), nil
}

// RequestFunding stores the proof of payment and records a pending funding
// transaction for an admin to confirm. The wallet is not credited here.
func (s *service) RequestFunding(ctx context.Context, userID uuid.UUID, input FundingInput) (*domain.WalletTransaction, error) {
	if input.AmountNaira < s.cfg.MinFundingNaira {
		return nil, fmt.Errorf("%w: minimum is %d naira", ErrAmountTooLow, s.cfg.MinFundingNaira)
	}
	if input.Reader == nil || input.Size == 0 {
		return nil, ErrProofRequired
	}
	ct := strings.ToLower(input.ContentType)
	if !storage.IsImage(ct) && !strings.HasPrefix(ct, "application/pdf") {
		return nil, ErrInvalidProof
	}
	if err := storage.Validate(ct, input.Size); err != nil {
		return nil, err
	}

	if _, err := s.walletRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	obj, err := s.storage.Save(ctx, path.Join("funding", userID.String()), input.FileName, ct, input.Reader, input.Size)
	if err != nil {
		return nil, fmt.Errorf("upload proof: %w", err)
	}

	id := uuid.New()
	coins := input.AmountNaira / s.cfg.CoinValueNaira
	txn := &domain.WalletTransaction{
		ID:          id,
		UserID:      userID,
		Type:        domain.TxFunding,
		AmountCoins: coins,
		AmountNaira: input.AmountNaira,
		Status:      domain.TxPending,
		Description: fmt.Sprintf("Wallet funding of %d naira (%d coins)", input.AmountNaira, coins),
		Reference:   "FUND-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12]),
		ProofURL:    &obj.URL,
	}

	if err := s.walletRepo.CreateTransaction(ctx, txn); err != nil {
		if rmErr := s.storage.Remove(ctx, obj.Key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned funding proof", zap.String("key", obj.Key), zap.Error(rmErr))
		}
		return nil, err
	}

	s.logger.Info("funding requested",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("amount_naira", input.AmountNaira),
	)
	return txn, nil
}

func (s *service) CheckAccess(ctx context.Context, userID, jobID uuid.UUID) (*domain.AccessCheck, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	w, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	check := &domain.AccessCheck{
		JobID:          job.ID,
		AccessFeeCoins: job.AccessFeeCoins,
		AccessFeeNaira: job.AccessFeeNaira,
		BalanceCoins:   w.BalanceCoins,
		Sufficient:     w.BalanceCoins >= job.AccessFeeCoins,
	}
	if !check.Sufficient {
		check.Shortfall = job.AccessFeeCoins - w.BalanceCoins
	}
	return check, nil
}
