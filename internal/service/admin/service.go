package admin

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/service/audit"
	"servicehub/internal/service/dashboard"
	"servicehub/internal/service/notification"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCannotDeleteSelf    = errors.New("you cannot delete your own account")
	ErrCannotModifySelf    = errors.New("you cannot change your own status")
	ErrProtectedAdmin      = errors.New("super admins cannot be deleted or suspended")
	ErrInvalidUserStatus   = errors.New("invalid user status")
	ErrJobNotPending       = errors.New("job is not pending approval")
	ErrFundingNotPending   = errors.New("funding request is not pending")
	ErrNotFunding          = errors.New("transaction is not a funding request")
	ErrReasonRequired      = errors.New("a reason is required")
	ErrInvalidAccessFee    = errors.New("access fee cannot be negative")
)

type Service interface {
	ListUsers(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.AdminUserDetail, error)
	UpdateUserStatus(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateUserStatusInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, id uuid.UUID) (domain.CascadeReport, error)

	ListPendingJobs(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error)
	ApproveJob(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Job, error)
	RejectJob(ctx context.Context, actor *domain.User, id uuid.UUID, reason string) (*domain.Job, error)
	UpdateAccessFee(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateAccessFeeInput) (*domain.Job, error)

	ListFundingRequests(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.FundingRequest], error)
	ConfirmFunding(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.WalletTransaction, error)
	RejectFunding(ctx context.Context, actor *domain.User, id uuid.UUID, reason string) (*domain.WalletTransaction, error)

	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	AuditLogs(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	jobRepo      repository.JobRepository
	walletRepo   repository.WalletRepository
	quizRepo     repository.QuizRepository
	statsRepo    repository.StatsRepository
	auditSvc     audit.Service
	dashboardSvc dashboard.Service
	notifier     notification.Notifier
	cfg          *config.Config
	logger       *zap.Logger
}

func NewService(
	repos *repository.Repositories,
	auditSvc audit.Service,
	dashboardSvc dashboard.Service,
	notifier notification.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		userRepo:     repos.User,
		sessionRepo:  repos.Session,
		jobRepo:      repos.Job,
		walletRepo:   repos.Wallet,
		quizRepo:     repos.Quiz,
		statsRepo:    repos.Stats,
		auditSvc:     auditSvc,
		dashboardSvc: dashboardSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *service) ListUsers(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.User], error) {
	users, total, err := s.userRepo.Search(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}
	return domain.NewPaginatedResponse(users, params, total), nil
}

func (s *service) getUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*domain.AdminUserDetail, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.AdminUserDetail{User: user, QuizAttempts: []domain.QuizAttempt{}}

	w, err := s.walletRepo.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.WalletBalance = w.BalanceCoins

	detail.JobsPosted, detail.Interests, err = s.statsRepo.UserActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsTradesperson() {
		attempts, err := s.quizRepo.ListAttempts(ctx, id)
		if err != nil {
			return nil, err
		}
		if attempts != nil {
			detail.QuizAttempts = attempts
		}
	}
	return detail, nil
}

func (s *service) UpdateUserStatus(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateUserStatusInput) (*domain.User, error) {
	if !input.Status.IsValid() {
		return nil, ErrInvalidUserStatus
	}
	if actor.ID == id {
		return nil, ErrCannotModifySelf
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if isSuperAdmin(user) && input.Status != domain.UserStatusActive {
		return nil, ErrProtectedAdmin
	}

	previous := user.Status
	if err := s.userRepo.UpdateStatus(ctx, id, input.Status); err != nil {
		return nil, err
	}
	user.Status = input.Status

	if input.Status == domain.UserStatusSuspended || input.Status == domain.UserStatusBanned {
		if err := s.sessionRepo.RevokeAllForUser(ctx, id); err != nil {
			s.logger.Warn("failed to revoke sessions", zap.String("user_id", id.String()), zap.Error(err))
		}
	}

	s.auditSvc.Record(ctx, actor.ID, "update_status", audit.EntityUser, id, map[string]interface{}{
		"from":   previous,
		"to":     input.Status,
		"reason": input.Reason,
	})
	return user, nil
}

// DeleteUser removes the user and everything hanging off them in one transaction.
func (s *service) DeleteUser(ctx context.Context, actor *domain.User, id uuid.UUID) (domain.CascadeReport, error) {
	if actor.ID == id {
		return nil, ErrCannotDeleteSelf
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if isSuperAdmin(user) {
		return nil, ErrProtectedAdmin
	}

	report, err := s.userRepo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("admin_id", actor.ID.String()),
		zap.Any("removed", report),
	)
	s.auditSvc.Record(ctx, actor.ID, "delete", audit.EntityUser, id, map[string]interface{}{
		"email":   user.Email,
		"role":    user.Role,
		"removed": report,
	})
	return report, nil
}

func isSuperAdmin(u *domain.User) bool {
	return u.IsAdmin() && u.AdminRole != nil && *u.AdminRole == domain.AdminRoleSuper
}

func (s *service) ListPendingJobs(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error) {
	jobs, total, err := s.jobRepo.ListPending(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Job]{}, err
	}
	return domain.NewPaginatedResponse(jobs, params, total), nil
}

func (s *service) getJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *service) ApproveJob(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Job, error) {
	if _, err := s.getJob(ctx, id); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Approve(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrJobNotPending
		}
		return nil, err
	}

	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, actor.ID, "approve", audit.EntityJob, id, nil)
	s.notifier.Notify(ctx, job.HomeownerID, domain.NotifJobApproved, map[string]interface{}{
		"job_title": job.Title,
	})
	return job, nil
}

func (s *service) RejectJob(ctx context.Context, actor *domain.User, id uuid.UUID, reason string) (*domain.Job, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if _, err := s.getJob(ctx, id); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Reject(ctx, id, reason); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrJobNotPending
		}
		return nil, err
	}

	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, actor.ID, "reject", audit.EntityJob, id, map[string]string{"reason": reason})
	s.notifier.Notify(ctx, job.HomeownerID, domain.NotifJobRejected, map[string]interface{}{
		"job_title": job.Title,
		"reason":    reason,
	})
	return job, nil
}

// UpdateAccessFee changes the fee for future interests. Existing interests keep the fee they were created with.
func (s *service) UpdateAccessFee(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateAccessFeeInput) (*domain.Job, error) {
	if input.AccessFeeNaira < 0 || input.AccessFeeCoins < 0 {
		return nil, ErrInvalidAccessFee
	}
	if input.AccessFeeCoins == 0 && input.AccessFeeNaira > 0 {
		input.AccessFeeCoins = input.AccessFeeNaira / s.cfg.CoinValueNaira
	}

	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.UpdateAccessFee(ctx, id, input.AccessFeeNaira, input.AccessFeeCoins); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, actor.ID, "update_access_fee", audit.EntityJob, id, map[string]int64{
		"previous_coins": job.AccessFeeCoins,
		"coins":          input.AccessFeeCoins,
		"naira":          input.AccessFeeNaira,
	})

	job.AccessFeeNaira = input.AccessFeeNaira
	job.AccessFeeCoins = input.AccessFeeCoins
	return job, nil
}

func (s *service) ListFundingRequests(ctx context.Context, params domain.PaginationParams) (domain.PaginatedResponse[domain.FundingRequest], error) {
	requests, total, err := s.walletRepo.ListPendingFunding(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.FundingRequest]{}, err
	}
	return domain.NewPaginatedResponse(requests, params, total), nil
}

func (s *service) getFunding(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	txn, err := s.walletRepo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.Type != domain.TxFunding {
		return nil, ErrNotFunding
	}
	if txn.Status != domain.TxPending {
		return nil, ErrFundingNotPending
	}
	return txn, nil
}

func (s *service) ConfirmFunding(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.WalletTransaction, error) {
	if _, err := s.getFunding(ctx, id); err != nil {
		return nil, err
	}

	txn, balance, err := s.walletRepo.ConfirmFunding(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrFundingNotPending
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, actor.ID, "confirm_funding", audit.EntityFunding, id, map[string]int64{
		"amount_coins": txn.AmountCoins,
		"amount_naira": txn.AmountNaira,
	})
	s.notifier.Notify(ctx, txn.UserID, domain.NotifWalletFunded, map[string]interface{}{
		"amount_naira":  txn.AmountNaira,
		"amount_coins":  txn.AmountCoins,
		"balance_coins": balance,
	})
	return txn, nil
}

func (s *service) RejectFunding(ctx context.Context, actor *domain.User, id uuid.UUID, reason string) (*domain.WalletTransaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if _, err := s.getFunding(ctx, id); err != nil {
		return nil, err
	}

	txn, err := s.walletRepo.RejectFunding(ctx, id, actor.ID, reason)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrFundingNotPending
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, actor.ID, "reject_funding", audit.EntityFunding, id, map[string]string{"reason": reason})
	s.notifier.Notify(ctx, txn.UserID, domain.NotifWalletFundingRejected, map[string]interface{}{
		"amount_naira": txn.AmountNaira,
		"reason":       reason,
	})
	return txn, nil
}

func (s *service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.dashboardSvc.GetStats(ctx)
}

func (s *service) AuditLogs(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	return s.auditSvc.List(ctx, filter, params)
}
