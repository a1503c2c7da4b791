package admin_test

import (
	"context"
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
	"servicehub/internal/service/admin"
	"servicehub/internal/service/audit"
)

type fixture struct {
	userRepo    *mocks.UserRepository
	sessionRepo *mocks.SessionRepository
	jobRepo     *mocks.JobRepository
	walletRepo  *mocks.WalletRepository
	quizRepo    *mocks.QuizRepository
	statsRepo   *mocks.StatsRepository
	audit       *mocks.AuditService
	dashboard   *mocks.DashboardService
	notifier    *mocks.NotificationService
	svc         admin.Service
}

func newFixture() *fixture {
	f := &fixture{
		userRepo:    new(mocks.UserRepository),
		sessionRepo: new(mocks.SessionRepository),
		jobRepo:     new(mocks.JobRepository),
		walletRepo:  new(mocks.WalletRepository),
		quizRepo:    new(mocks.QuizRepository),
		statsRepo:   new(mocks.StatsRepository),
		audit:       new(mocks.AuditService),
		dashboard:   new(mocks.DashboardService),
		notifier:    new(mocks.NotificationService),
	}
	repos := &repository.Repositories{
		User:    f.userRepo,
		Session: f.sessionRepo,
		Job:     f.jobRepo,
		Wallet:  f.walletRepo,
		Quiz:    f.quizRepo,
		Stats:   f.statsRepo,
	}
	cfg := &config.Config{CoinValueNaira: 100}
	f.svc = admin.NewService(repos, f.audit, f.dashboard, f.notifier, cfg, zap.NewNop())
	return f
}

func adminUser(role domain.AdminRole) *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Ops", Role: domain.RoleAdmin, AdminRole: &role, Status: domain.UserStatusActive}
}

func TestUpdateUserStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("suspending revokes sessions", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleUserManager)
		target := &domain.User{ID: uuid.New(), Role: domain.RoleTradesperson, Status: domain.UserStatusActive}

		f.userRepo.On("GetByID", ctx, target.ID).Return(target, nil).Once()
		f.userRepo.On("UpdateStatus", ctx, target.ID, domain.UserStatusSuspended).Return(nil).Once()
		f.sessionRepo.On("RevokeAllForUser", ctx, target.ID).Return(nil).Once()
		f.audit.On("Record", ctx, actor.ID, "update_status", audit.EntityUser, target.ID, mock.Anything).Once()

		user, err := f.svc.UpdateUserStatus(ctx, actor, target.ID, domain.UpdateUserStatusInput{Status: domain.UserStatusSuspended, Reason: "spam"})

		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusSuspended, user.Status)
		f.sessionRepo.AssertExpectations(t)
		f.audit.AssertExpectations(t)
	})

	t.Run("reactivating keeps sessions", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleUserManager)
		target := &domain.User{ID: uuid.New(), Role: domain.RoleHomeowner, Status: domain.UserStatusSuspended}

		f.userRepo.On("GetByID", ctx, target.ID).Return(target, nil).Once()
		f.userRepo.On("UpdateStatus", ctx, target.ID, domain.UserStatusActive).Return(nil).Once()
		f.audit.On("Record", ctx, actor.ID, "update_status", audit.EntityUser, target.ID, mock.Anything).Once()

		_, err := f.svc.UpdateUserStatus(ctx, actor, target.ID, domain.UpdateUserStatusInput{Status: domain.UserStatusActive})

		require.NoError(t, err)
		f.sessionRepo.AssertNotCalled(t, "RevokeAllForUser", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateUserStatus(ctx, adminUser(domain.AdminRoleSuper), uuid.New(), domain.UpdateUserStatusInput{Status: "frozen"})

		assert.ErrorIs(t, err, admin.ErrInvalidUserStatus)
	})

	t.Run("cannot suspend self", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSuper)

		_, err := f.svc.UpdateUserStatus(ctx, actor, actor.ID, domain.UpdateUserStatusInput{Status: domain.UserStatusSuspended})

		assert.ErrorIs(t, err, admin.ErrCannotModifySelf)
	})

	t.Run("cannot suspend a super admin", func(t *testing.T) {
		f := newFixture()
		target := adminUser(domain.AdminRoleSuper)
		f.userRepo.On("GetByID", ctx, target.ID).Return(target, nil).Once()

		_, err := f.svc.UpdateUserStatus(ctx, adminUser(domain.AdminRoleSuper), target.ID, domain.UpdateUserStatusInput{Status: domain.UserStatusBanned})

		assert.ErrorIs(t, err, admin.ErrProtectedAdmin)
		f.userRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cascade report", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSuper)
		target := &domain.User{ID: uuid.New(), Email: "tp@example.com", Role: domain.RoleTradesperson}
		report := domain.CascadeReport{"users": 1, "interests": 3, "wallet_transactions": 2}

		f.userRepo.On("GetByID", ctx, target.ID).Return(target, nil).Once()
		f.userRepo.On("DeleteCascade", ctx, target.ID).Return(report, nil).Once()
		f.audit.On("Record", ctx, actor.ID, "delete", audit.EntityUser, target.ID, mock.Anything).Once()

		got, err := f.svc.DeleteUser(ctx, actor, target.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), got["interests"])
		f.audit.AssertExpectations(t)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSuper)

		_, err := f.svc.DeleteUser(ctx, actor, actor.ID)

		assert.ErrorIs(t, err, admin.ErrCannotDeleteSelf)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.userRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := f.svc.DeleteUser(ctx, adminUser(domain.AdminRoleSuper), id)

		assert.ErrorIs(t, err, admin.ErrUserNotFound)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	target := &domain.User{ID: uuid.New(), Role: domain.RoleTradesperson}

	f.userRepo.On("GetByID", ctx, target.ID).Return(target, nil).Once()
	f.walletRepo.On("GetOrCreate", ctx, target.ID).Return(&domain.Wallet{UserID: target.ID, BalanceCoins: 40}, nil).Once()
	f.statsRepo.On("UserActivity", ctx, target.ID).Return(int64(0), int64(7), nil).Once()
	f.quizRepo.On("ListAttempts", ctx, target.ID).Return([]domain.QuizAttempt{{Score: 8, Total: 10, Passed: true}}, nil).Once()

	detail, err := f.svc.GetUser(ctx, target.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(40), detail.WalletBalance)
	assert.Equal(t, int64(7), detail.Interests)
	assert.Len(t, detail.QuizAttempts, 1)
}

func TestApproveJob(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies homeowner", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleUserManager)
		job := &domain.Job{ID: uuid.New(), HomeownerID: uuid.New(), Title: "Tile bathroom", Status: domain.JobStatusPendingApproval}
		approved := *job
		approved.Status = domain.JobStatusActive

		f.jobRepo.On("GetByID", ctx, job.ID).Return(job, nil).Once()
		f.jobRepo.On("Approve", ctx, job.ID).Return(nil).Once()
		f.jobRepo.On("GetByID", ctx, job.ID).Return(&approved, nil).Once()
		f.audit.On("Record", ctx, actor.ID, "approve", audit.EntityJob, job.ID, mock.Anything).Once()
		f.notifier.On("Notify", ctx, job.HomeownerID, domain.NotifJobApproved, mock.Anything).Once()

		got, err := f.svc.ApproveJob(ctx, actor, job.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusActive, got.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("already decided", func(t *testing.T) {
		f := newFixture()
		job := &domain.Job{ID: uuid.New(), Status: domain.JobStatusActive}

		f.jobRepo.On("GetByID", ctx, job.ID).Return(job, nil).Once()
		f.jobRepo.On("Approve", ctx, job.ID).Return(repository.ErrStaleState).Once()

		_, err := f.svc.ApproveJob(ctx, adminUser(domain.AdminRoleSuper), job.ID)

		assert.ErrorIs(t, err, admin.ErrJobNotPending)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRejectJob(t *testing.T) {
	ctx := context.Background()

	t.Run("requires reason", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.RejectJob(ctx, adminUser(domain.AdminRoleSuper), uuid.New(), "  ")

		assert.ErrorIs(t, err, admin.ErrReasonRequired)
	})

	t.Run("passes reason to homeowner", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSupport)
		job := &domain.Job{ID: uuid.New(), HomeownerID: uuid.New(), Title: "Paint fence", Status: domain.JobStatusPendingApproval}

		f.jobRepo.On("GetByID", ctx, job.ID).Return(job, nil).Twice()
		f.jobRepo.On("Reject", ctx, job.ID, "missing details").Return(nil).Once()
		f.audit.On("Record", ctx, actor.ID, "reject", audit.EntityJob, job.ID, mock.Anything).Once()
		f.notifier.On("Notify", ctx, job.HomeownerID, domain.NotifJobRejected, mock.MatchedBy(func(d map[string]interface{}) bool {
			return d["reason"] == "missing details"
		})).Once()

		_, err := f.svc.RejectJob(ctx, actor, job.ID, "missing details")

		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})
}

func TestUpdateAccessFee(t *testing.T) {
	ctx := context.Background()

	t.Run("derives coins from naira", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSuper)
		job := &domain.Job{ID: uuid.New(), AccessFeeNaira: 1000, AccessFeeCoins: 10}

		f.jobRepo.On("GetByID", ctx, job.ID).Return(job, nil).Once()
		f.jobRepo.On("UpdateAccessFee", ctx, job.ID, int64(2500), int64(25)).Return(nil).Once()
		f.audit.On("Record", ctx, actor.ID, "update_access_fee", audit.EntityJob, job.ID, mock.Anything).Once()

		got, err := f.svc.UpdateAccessFee(ctx, actor, job.ID, domain.UpdateAccessFeeInput{AccessFeeNaira: 2500})

		require.NoError(t, err)
		assert.Equal(t, int64(25), got.AccessFeeCoins)
		f.jobRepo.AssertExpectations(t)
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpdateAccessFee(ctx, adminUser(domain.AdminRoleSuper), uuid.New(), domain.UpdateAccessFeeInput{AccessFeeCoins: -1})

		assert.ErrorIs(t, err, admin.ErrInvalidAccessFee)
	})
}

func TestConfirmFunding(t *testing.T) {
	ctx := context.Background()

	t.Run("credits wallet and notifies", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleFinanceManager)
		pending := &domain.WalletTransaction{ID: uuid.New(), UserID: uuid.New(), Type: domain.TxFunding, Status: domain.TxPending, AmountNaira: 5000, AmountCoins: 50}
		done := *pending
		done.Status = domain.TxCompleted

		f.walletRepo.On("GetTransaction", ctx, pending.ID).Return(pending, nil).Once()
		f.walletRepo.On("ConfirmFunding", ctx, pending.ID, actor.ID).Return(&done, int64(70), nil).Once()
		f.audit.On("Record", ctx, actor.ID, "confirm_funding", audit.EntityFunding, pending.ID, mock.Anything).Once()
		f.notifier.On("Notify", ctx, pending.UserID, domain.NotifWalletFunded, mock.MatchedBy(func(d map[string]interface{}) bool {
			return d["balance_coins"] == int64(70) && d["amount_coins"] == int64(50)
		})).Once()

		txn, err := f.svc.ConfirmFunding(ctx, actor, pending.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TxCompleted, txn.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("already processed", func(t *testing.T) {
		f := newFixture()
		txn := &domain.WalletTransaction{ID: uuid.New(), Type: domain.TxFunding, Status: domain.TxCompleted}
		f.walletRepo.On("GetTransaction", ctx, txn.ID).Return(txn, nil).Once()

		_, err := f.svc.ConfirmFunding(ctx, adminUser(domain.AdminRoleSuper), txn.ID)

		assert.ErrorIs(t, err, admin.ErrFundingNotPending)
		f.walletRepo.AssertNotCalled(t, "ConfirmFunding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent confirmation loses", func(t *testing.T) {
		f := newFixture()
		actor := adminUser(domain.AdminRoleSuper)
		txn := &domain.WalletTransaction{ID: uuid.New(), Type: domain.TxFunding, Status: domain.TxPending}
		f.walletRepo.On("GetTransaction", ctx, txn.ID).Return(txn, nil).Once()
		f.walletRepo.On("ConfirmFunding", ctx, txn.ID, actor.ID).Return(nil, int64(0), repository.ErrStaleState).Once()

		_, err := f.svc.ConfirmFunding(ctx, actor, txn.ID)

		assert.ErrorIs(t, err, admin.ErrFundingNotPending)
	})

	t.Run("not a funding transaction", func(t *testing.T) {
		f := newFixture()
		txn := &domain.WalletTransaction{ID: uuid.New(), Type: domain.TxAccessFee, Status: domain.TxPending}
		f.walletRepo.On("GetTransaction", ctx, txn.ID).Return(txn, nil).Once()

		_, err := f.svc.ConfirmFunding(ctx, adminUser(domain.AdminRoleSuper), txn.ID)

		assert.ErrorIs(t, err, admin.ErrNotFunding)
	})
}

func TestRejectFunding(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	actor := adminUser(domain.AdminRoleFinanceManager)
	pending := &domain.WalletTransaction{ID: uuid.New(), UserID: uuid.New(), Type: domain.TxFunding, Status: domain.TxPending, AmountNaira: 5000}
	rejected := *pending
	rejected.Status = domain.TxRejected

	f.walletRepo.On("GetTransaction", ctx, pending.ID).Return(pending, nil).Once()
	f.walletRepo.On("RejectFunding", ctx, pending.ID, actor.ID, "blurry receipt").Return(&rejected, nil).Once()
	f.audit.On("Record", ctx, actor.ID, "reject_funding", audit.EntityFunding, pending.ID, mock.Anything).Once()
	f.notifier.On("Notify", ctx, pending.UserID, domain.NotifWalletFundingRejected, mock.Anything).Once()

	txn, err := f.svc.RejectFunding(ctx, actor, pending.ID, "blurry receipt")

	require.NoError(t, err)
	assert.Equal(t, domain.TxRejected, txn.Status)
	f.walletRepo.AssertExpectations(t)
}
