package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/mocks"
	"servicehub/internal/repository"
	"servicehub/internal/service/job"
)

type fixture struct {
	jobRepo      *mocks.JobRepository
	interestRepo *mocks.InterestRepository
	notifier     *mocks.NotificationService
	cfg          *config.Config
	svc          job.Service
}

func newFixture() *fixture {
	f := &fixture{
		jobRepo:      new(mocks.JobRepository),
		interestRepo: new(mocks.InterestRepository),
		notifier:     new(mocks.NotificationService),
		cfg:          &config.Config{DefaultAccessFeeNaira: 1000, DefaultAccessFeeCoins: 10},
	}
	f.svc = job.NewService(f.jobRepo, f.interestRepo, f.notifier, f.cfg, zap.NewNop())
	return f
}

func homeowner() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleHomeowner, Status: domain.UserStatusActive}
}

func validInput() domain.CreateJobInput {
	return domain.CreateJobInput{
		Title:       "Fix leaking kitchen sink",
		Description: "Water drips under the sink whenever the tap runs.",
		Category:    "plumbing",
		State:       "Lagos",
		LGA:         "Ikeja",
		Town:        "Allen",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("pending approval with default fee", func(t *testing.T) {
		f := newFixture()
		owner := homeowner()

		f.jobRepo.On("Create", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.HomeownerID == owner.ID && j.Status == domain.JobStatusPendingApproval &&
				j.AccessFeeCoins == 10 && j.AccessFeeNaira == 1000 && j.Location == "Allen, Ikeja, Lagos"
		})).Return(nil).Once()

		created, err := f.svc.Create(ctx, owner, validInput())

		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusPendingApproval, created.Status)
		f.jobRepo.AssertExpectations(t)
	})

	t.Run("auto approve", func(t *testing.T) {
		f := newFixture()
		f.cfg.AutoApproveJobs = true
		f.jobRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		created, err := f.svc.Create(ctx, homeowner(), validInput())

		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusActive, created.Status)
	})

	t.Run("tradesperson cannot post", func(t *testing.T) {
		f := newFixture()
		tp := &domain.User{ID: uuid.New(), Role: domain.RoleTradesperson}

		_, err := f.svc.Create(ctx, tp, validInput())

		assert.ErrorIs(t, err, job.ErrHomeownerOnly)
	})

	t.Run("short title", func(t *testing.T) {
		f := newFixture()
		input := validInput()
		input.Title = "Fix"

		_, err := f.svc.Create(ctx, homeowner(), input)

		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		f.jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBrowseForcesActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	params := domain.PaginationParams{Page: 1, PageSize: 20}

	f.jobRepo.On("Search", ctx, mock.MatchedBy(func(fl domain.JobFilter) bool {
		return fl.Status == string(domain.JobStatusActive) && fl.Category == "plumbing"
	}), params).Return([]domain.Job{{Title: "a"}}, int64(1), nil).Once()

	res, err := f.svc.Browse(ctx, domain.JobFilter{Status: "completed", Category: "plumbing"}, params)

	require.NoError(t, err)
	assert.Len(t, res.Data, 1)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	owner := homeowner()
	pending := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusPendingApproval}

	t.Run("owner sees pending job", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.On("GetByID", ctx, pending.ID).Return(pending, nil).Once()

		got, err := f.svc.GetByID(ctx, owner, pending.ID)

		require.NoError(t, err)
		assert.Equal(t, pending.ID, got.ID)
	})

	t.Run("stranger does not", func(t *testing.T) {
		f := newFixture()
		f.jobRepo.On("GetByID", ctx, pending.ID).Return(pending, nil).Once()

		_, err := f.svc.GetByID(ctx, homeowner(), pending.ID)

		assert.ErrorIs(t, err, job.ErrJobNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	owner := homeowner()

	t.Run("completed job is locked", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusCompleted}
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()
		title := "A brand new title here"

		_, err := f.svc.Update(ctx, owner, j.ID, domain.UpdateJobInput{Title: &title})

		assert.ErrorIs(t, err, job.ErrJobNotEditable)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: uuid.New(), Status: domain.JobStatusActive}
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()

		_, err := f.svc.Update(ctx, owner, j.ID, domain.UpdateJobInput{})

		assert.ErrorIs(t, err, job.ErrNotJobOwner)
	})

	t.Run("applies partial input", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusActive, Title: "Old title value", Town: "Yaba", State: "Lagos"}
		town := "Surulere"
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()
		f.jobRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.Job) bool {
			return u.Town == "Surulere" && u.Location == "Surulere, Lagos" && u.Title == "Old title value"
		})).Return(nil).Once()

		_, err := f.svc.Update(ctx, owner, j.ID, domain.UpdateJobInput{Town: &town})

		require.NoError(t, err)
		f.jobRepo.AssertExpectations(t)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	owner := homeowner()

	t.Run("notifies interested tradespeople", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Title: "Paint fence", Status: domain.JobStatusActive}
		updated := *j
		updated.Status = domain.JobStatusInProgress
		tp1, tp2 := uuid.New(), uuid.New()

		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()
		f.jobRepo.On("UpdateStatus", ctx, j.ID, domain.JobStatusActive, domain.JobStatusInProgress).Return(nil).Once()
		f.jobRepo.On("GetByID", ctx, j.ID).Return(&updated, nil).Once()
		f.interestRepo.On("ListTradespersonIDsByJob", ctx, j.ID).Return([]uuid.UUID{tp1, tp2}, nil).Once()
		statusIs := mock.MatchedBy(func(d map[string]interface{}) bool { return d["status"] == "in progress" })
		f.notifier.On("Notify", ctx, tp1, domain.NotifJobStatusChanged, statusIs).Once()
		f.notifier.On("Notify", ctx, tp2, domain.NotifJobStatusChanged, statusIs).Once()

		got, err := f.svc.UpdateStatus(ctx, owner, j.ID, domain.JobStatusInProgress)

		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusInProgress, got.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("illegal transition", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusCompleted}
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()

		_, err := f.svc.UpdateStatus(ctx, owner, j.ID, domain.JobStatusActive)

		var terr *job.TransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, "cannot change job status from completed to active", terr.Error())
	})

	t.Run("owner cannot self-approve", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusPendingApproval}
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()

		_, err := f.svc.UpdateStatus(ctx, owner, j.ID, domain.JobStatusActive)

		var terr *job.TransitionError
		assert.True(t, errors.As(err, &terr))
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture()
		j := &domain.Job{ID: uuid.New(), HomeownerID: owner.ID, Status: domain.JobStatusActive}
		f.jobRepo.On("GetByID", ctx, j.ID).Return(j, nil).Once()
		f.jobRepo.On("UpdateStatus", ctx, j.ID, domain.JobStatusActive, domain.JobStatusCancelled).Return(repository.ErrStaleState).Once()

		_, err := f.svc.UpdateStatus(ctx, owner, j.ID, domain.JobStatusCancelled)

		assert.ErrorIs(t, err, job.ErrJobStateChanged)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateStatus(ctx, owner, uuid.New(), "archived")

		assert.ErrorIs(t, err, job.ErrInvalidStatus)
	})
}
