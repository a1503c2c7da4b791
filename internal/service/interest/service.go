package interest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/service/notification"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrInterestNotFound    = errors.New("interest not found")
	ErrTradespersonOnly    = errors.New("only tradespeople can show interest in jobs")
	ErrJobNotAccepting     = errors.New("job is not accepting interest")
	ErrOwnJob              = errors.New("you cannot show interest in your own job")
	ErrAlreadyInterested   = errors.New("you have already shown interest in this job")
	ErrNotJobOwner         = errors.New("only the job owner can do this")
	ErrNotInterestOwner    = errors.New("you can only manage your own interests")
	ErrNotPending          = errors.New("interest is not pending")
	ErrContactNotShared    = errors.New("homeowner has not shared contact details yet")
	ErrAlreadyPaid         = errors.New("access fee already paid")
	ErrInterestCancelled   = errors.New("interest has been cancelled")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAccessRequired      = errors.New("you must pay for access before viewing contact details")
)

const maxMessageLength = 1000

type Service interface {
	Create(ctx context.Context, user *domain.User, input domain.CreateInterestInput) (*domain.Interest, error)
	ListMine(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithJob], error)
	ListForJob(ctx context.Context, user *domain.User, jobID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithTradesperson], error)
	ShareContact(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Interest, error)
	PayAccess(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.AccessPayment, error)
	ContactDetails(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.ContactDetails, error)
	Withdraw(ctx context.Context, user *domain.User, id uuid.UUID) error
}

type service struct {
	interestRepo repository.InterestRepository
	jobRepo      repository.JobRepository
	userRepo     repository.UserRepository
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewService(
	interestRepo repository.InterestRepository,
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	notifier notification.Notifier,
	logger *zap.Logger,
) Service {
	return &service{
		interestRepo: interestRepo,
		jobRepo:      jobRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, user *domain.User, input domain.CreateInterestInput) (*domain.Interest, error) {
	if !user.IsTradesperson() {
		return nil, ErrTradespersonOnly
	}
	message := strings.TrimSpace(input.Message)
	if len(message) > maxMessageLength {
		return nil, domain.NewValidationError(fmt.Sprintf("message cannot exceed %d characters", maxMessageLength))
	}

	job, err := s.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.Status != domain.JobStatusActive {
		return nil, ErrJobNotAccepting
	}
	if job.HomeownerID == user.ID {
		return nil, ErrOwnJob
	}

	existing, err := s.interestRepo.GetByJobAndTradesperson(ctx, job.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyInterested
	}

	interest := &domain.Interest{
		ID:             uuid.New(),
		JobID:          job.ID,
		TradespersonID: user.ID,
		HomeownerID:    job.HomeownerID,
		Message:        message,
		Status:         domain.InterestPending,
		AccessFeeNaira: job.AccessFeeNaira,
		AccessFeeCoins: job.AccessFeeCoins,
	}

	if err := s.interestRepo.Create(ctx, interest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInterested
		}
		return nil, err
	}

	s.notifier.Notify(ctx, job.HomeownerID, domain.NotifNewInterest, map[string]interface{}{
		"job_title":         job.Title,
		"tradesperson_name": user.Name,
		"message":           message,
	})

	return interest, nil
}

func (s *service) ListMine(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithJob], error) {
	interests, total, err := s.interestRepo.ListByTradesperson(ctx, tradespersonID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.InterestWithJob]{}, err
	}
	return domain.NewPaginatedResponse(interests, params, total), nil
}

func (s *service) ListForJob(ctx context.Context, user *domain.User, jobID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithTradesperson], error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return domain.PaginatedResponse[domain.InterestWithTradesperson]{}, err
	}
	if job == nil {
		return domain.PaginatedResponse[domain.InterestWithTradesperson]{}, ErrJobNotFound
	}
	if job.HomeownerID != user.ID && !user.IsAdmin() {
		return domain.PaginatedResponse[domain.InterestWithTradesperson]{}, ErrNotJobOwner
	}

	interests, total, err := s.interestRepo.ListByJob(ctx, jobID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.InterestWithTradesperson]{}, err
	}
	return domain.NewPaginatedResponse(interests, params, total), nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*domain.Interest, error) {
	interest, err := s.interestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if interest == nil {
		return nil, ErrInterestNotFound
	}
	return interest, nil
}

// ShareContact moves a pending interest to contact_shared. Only the job's homeowner may do it.
func (s *service) ShareContact(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Interest, error) {
	interest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interest.HomeownerID != user.ID {
		return nil, ErrNotJobOwner
	}
	if interest.Status != domain.InterestPending {
		return nil, ErrNotPending
	}

	updated, err := s.interestRepo.ShareContact(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, interest.JobID)
	if err != nil {
		s.logger.Warn("failed to load job for notification", zap.String("job_id", interest.JobID.String()), zap.Error(err))
	}
	jobTitle := ""
	if job != nil {
		jobTitle = job.Title
	}

	s.notifier.Notify(ctx, interest.TradespersonID, domain.NotifContactShared, map[string]interface{}{
		"job_title":        jobTitle,
		"homeowner_name":   user.Name,
		"access_fee_coins": updated.AccessFeeCoins,
	})

	return updated, nil
}

// PayAccess charges the tradesperson's wallet and opens the gate in one transaction.
func (s *service) PayAccess(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.AccessPayment, error) {
	interest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interest.TradespersonID != user.ID {
		return nil, ErrNotInterestOwner
	}
	if err := gateError(interest.Status); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, interest.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	jobID := interest.JobID
	interestID := interest.ID
	txn := &domain.WalletTransaction{
		ID:          uuid.New(),
		UserID:      user.ID,
		Type:        domain.TxAccessFee,
		Status:      domain.TxCompleted,
		Description: fmt.Sprintf("Access fee for job: %s", job.Title),
		Reference:   fmt.Sprintf("ACCESS-%s", interest.ID),
		JobID:       &jobID,
		InterestID:  &interestID,
	}

	payment, err := s.interestRepo.PayAccess(ctx, id, txn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			return nil, ErrInsufficientBalance
		case errors.Is(err, repository.ErrStaleState), errors.Is(err, repository.ErrDuplicate):
			current, getErr := s.get(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if gateErr := gateError(current.Status); gateErr != nil {
				return nil, gateErr
			}
			return nil, ErrAlreadyPaid
		default:
			return nil, err
		}
	}

	s.logger.Info("access fee paid",
		zap.String("interest_id", interest.ID.String()),
		zap.String("tradesperson_id", user.ID.String()),
		zap.Int64("amount_coins", txn.AmountCoins),
	)

	s.notifier.Notify(ctx, interest.HomeownerID, domain.NotifAccessPaid, map[string]interface{}{
		"job_title":         job.Title,
		"tradesperson_name": user.Name,
	})

	return payment, nil
}

// gateError explains why an interest in the given status cannot be paid for.
func gateError(status domain.InterestStatus) error {
	switch status {
	case domain.InterestContactShared:
		return nil
	case domain.InterestPending:
		return ErrContactNotShared
	case domain.InterestPaidAccess:
		return ErrAlreadyPaid
	default:
		return ErrInterestCancelled
	}
}

func (s *service) ContactDetails(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.ContactDetails, error) {
	interest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interest.TradespersonID != user.ID {
		return nil, ErrNotInterestOwner
	}
	if !interest.HasPaidAccess() {
		return nil, ErrAccessRequired
	}

	homeowner, err := s.userRepo.GetByID(ctx, interest.HomeownerID)
	if err != nil {
		return nil, err
	}
	if homeowner == nil {
		return nil, ErrInterestNotFound
	}

	return &domain.ContactDetails{
		InterestID: interest.ID,
		JobID:      interest.JobID,
		Name:       homeowner.Name,
		Email:      homeowner.Email,
		Phone:      homeowner.Phone,
		Location:   homeowner.Location,
	}, nil
}

func (s *service) Withdraw(ctx context.Context, user *domain.User, id uuid.UUID) error {
	interest, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if interest.TradespersonID != user.ID {
		return ErrNotInterestOwner
	}
	if interest.Status != domain.InterestPending {
		return ErrNotPending
	}

	if err := s.interestRepo.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return ErrNotPending
		}
		return err
	}
	return nil
}
