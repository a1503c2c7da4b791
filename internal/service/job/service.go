package job

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/service/notification"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrHomeownerOnly   = errors.New("only homeowners can post jobs")
	ErrNotJobOwner     = errors.New("you can only manage your own jobs")
	ErrJobNotEditable  = errors.New("job can no longer be edited")
	ErrInvalidStatus   = errors.New("invalid job status")
	ErrJobStateChanged = errors.New("job status changed, please reload and try again")
)

// TransitionError reports a status change the owner is not allowed to make.
type TransitionError struct {
	From domain.JobStatus
	To   domain.JobStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change job status from %s to %s", e.From, e.To)
}

type Service interface {
	Create(ctx context.Context, user *domain.User, input domain.CreateJobInput) (*domain.Job, error)
	Browse(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error)
	GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Job, error)
	ListMine(ctx context.Context, homeownerID uuid.UUID, status string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error)
	Update(ctx context.Context, user *domain.User, id uuid.UUID, input domain.UpdateJobInput) (*domain.Job, error)
	UpdateStatus(ctx context.Context, user *domain.User, id uuid.UUID, next domain.JobStatus) (*domain.Job, error)
}

type service struct {
	jobRepo      repository.JobRepository
	interestRepo repository.InterestRepository
	notifier     notification.Notifier
	cfg          *config.Config
	logger       *zap.Logger
}

func NewService(
	jobRepo repository.JobRepository,
	interestRepo repository.InterestRepository,
	notifier notification.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		jobRepo:      jobRepo,
		interestRepo: interestRepo,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, user *domain.User, input domain.CreateJobInput) (*domain.Job, error) {
	if !user.IsHomeowner() {
		return nil, ErrHomeownerOnly
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:             uuid.New(),
		HomeownerID:    user.ID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Category:       strings.TrimSpace(input.Category),
		Location:       strings.TrimSpace(input.Location),
		State:          strings.TrimSpace(input.State),
		LGA:            strings.TrimSpace(input.LGA),
		Town:           strings.TrimSpace(input.Town),
		ZipCode:        input.ZipCode,
		BudgetMin:      input.BudgetMin,
		BudgetMax:      input.BudgetMax,
		Timeline:       input.Timeline,
		Status:         domain.JobStatusPendingApproval,
		AccessFeeNaira: s.cfg.DefaultAccessFeeNaira,
		AccessFeeCoins: s.cfg.DefaultAccessFeeCoins,
	}
	job.SyncLocation()

	if s.cfg.AutoApproveJobs {
		job.Status = domain.JobStatusActive
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("homeowner_id", user.ID.String()),
		zap.String("status", string(job.Status)),
	)
	return job, nil
}

func (s *service) Browse(ctx context.Context, filter domain.JobFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error) {
	filter.Status = string(domain.JobStatusActive)
	jobs, total, err := s.jobRepo.Search(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Job]{}, err
	}
	return domain.NewPaginatedResponse(jobs, params, total), nil
}

// GetByID hides non-active jobs from everyone but their owner and admins.
func (s *service) GetByID(ctx context.Context, viewer *domain.User, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	if job.Status != domain.JobStatusActive {
		if viewer == nil || (viewer.ID != job.HomeownerID && !viewer.IsAdmin()) {
			return nil, ErrJobNotFound
		}
	}
	return job, nil
}

func (s *service) ListMine(ctx context.Context, homeownerID uuid.UUID, status string, params domain.PaginationParams) (domain.PaginatedResponse[domain.Job], error) {
	if status != "" && !domain.JobStatus(status).IsValid() {
		return domain.PaginatedResponse[domain.Job]{}, ErrInvalidStatus
	}
	jobs, total, err := s.jobRepo.ListByHomeowner(ctx, homeownerID, status, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Job]{}, err
	}
	return domain.NewPaginatedResponse(jobs, params, total), nil
}

func (s *service) getOwned(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.HomeownerID != user.ID {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

func (s *service) Update(ctx context.Context, user *domain.User, id uuid.UUID, input domain.UpdateJobInput) (*domain.Job, error) {
	job, err := s.getOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsEditable() {
		return nil, ErrJobNotEditable
	}

	if input.Title != nil {
		if len(strings.TrimSpace(*input.Title)) < 10 {
			return nil, domain.NewValidationError("title must be at least 10 characters")
		}
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if len(strings.TrimSpace(*input.Description)) < 20 {
			return nil, domain.NewValidationError("description must be at least 20 characters")
		}
		job.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, domain.NewValidationError("category is required")
		}
		job.Category = strings.TrimSpace(*input.Category)
	}
	if input.Location != nil {
		job.Location = strings.TrimSpace(*input.Location)
	}
	if input.State != nil {
		job.State = strings.TrimSpace(*input.State)
	}
	if input.LGA != nil {
		job.LGA = strings.TrimSpace(*input.LGA)
	}
	if input.Town != nil {
		job.Town = strings.TrimSpace(*input.Town)
	}
	if input.ZipCode != nil {
		job.ZipCode = *input.ZipCode
	}
	if input.BudgetMin != nil {
		job.BudgetMin = input.BudgetMin
	}
	if input.BudgetMax != nil {
		job.BudgetMax = input.BudgetMax
	}
	if input.Timeline != nil {
		job.Timeline = *input.Timeline
	}
	if err := domain.ValidateBudget(job.BudgetMin, job.BudgetMax); err != nil {
		return nil, err
	}
	job.SyncLocation()

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *service) UpdateStatus(ctx context.Context, user *domain.User, id uuid.UUID, next domain.JobStatus) (*domain.Job, error) {
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	job, err := s.getOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanOwnerTransitionTo(next) {
		return nil, &TransitionError{From: job.Status, To: next}
	}

	if err := s.jobRepo.UpdateStatus(ctx, job.ID, job.Status, next); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrJobStateChanged
		}
		return nil, err
	}

	updated, err := s.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrJobNotFound
	}

	s.notifyInterested(ctx, updated)
	return updated, nil
}

func (s *service) notifyInterested(ctx context.Context, job *domain.Job) {
	ids, err := s.interestRepo.ListTradespersonIDsByJob(ctx, job.ID)
	if err != nil {
		s.logger.Warn("failed to list interested tradespeople",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}

	for _, id := range ids {
		s.notifier.Notify(ctx, id, domain.NotifJobStatusChanged, map[string]interface{}{
			"job_title": job.Title,
			"status":    strings.ReplaceAll(string(job.Status), "_", " "),
		})
	}
}
