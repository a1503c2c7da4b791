package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/mocks"
	"servicehub/internal/pkg/templates"
	"servicehub/internal/service/notification"
)

const testTemplates = `
templates:
  contact_shared:
    subject: "{{.homeowner_name}} shared their contact details"
    email: "<p>Hi {{.name}}, pay {{.access_fee_coins}} coins for {{.job_title}}</p>"
    sms: "ServiceHub: {{.homeowner_name}} shared contact details for {{.job_title}}"
  job_approved:
    subject: "Your job is live: {{.job_title}}"
    email: "<p>{{.job_title}} approved</p>"
    sms: "ServiceHub: {{.job_title}} is live"
`

type fixture struct {
	notifRepo *mocks.NotificationRepository
	prefRepo  *mocks.PreferenceRepository
	userRepo  *mocks.UserRepository
	email     *mocks.EmailService
	sms       *mocks.SMSService
	svc       notification.Service
}

func newFixture(t *testing.T) *fixture {
	reg := templates.NewRegistry()
	require.NoError(t, reg.Load([]byte(testTemplates)))

	f := &fixture{
		notifRepo: new(mocks.NotificationRepository),
		prefRepo:  new(mocks.PreferenceRepository),
		userRepo:  new(mocks.UserRepository),
		email:     new(mocks.EmailService),
		sms:       new(mocks.SMSService),
	}
	dispatcher := notification.NewDispatcher(f.notifRepo, f.email, f.sms, zap.NewNop())
	f.svc = notification.NewService(f.notifRepo, f.prefRepo, f.userRepo, reg, dispatcher, zap.NewNop())
	return f
}

func recipient() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Tunde", Email: "tunde@example.com", Phone: "08031112222"}
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	data := map[string]interface{}{"homeowner_name": "Ada", "job_title": "Fix sink", "access_fee_coins": 10}

	t.Run("delivers over both channels by default", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		f := newFixture(t)
		user := recipient()

		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.prefRepo.On("Get", ctx, user.ID).Return(nil, nil).Once()
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Channel == domain.ChannelBoth && n.Recipient == "tunde@example.com,08031112222" &&
				n.Subject == "Ada shared their contact details" && n.Status == domain.NotifStatusPending
		})).Return(nil).Once()
		f.email.On("Send", mock.Anything, "tunde@example.com", "Ada shared their contact details", mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, "Hi Tunde")
		})).Return(nil).Once()
		f.sms.On("Send", mock.Anything, "08031112222", "ServiceHub: Ada shared contact details for Fix sink").Return(nil).Once()
		f.notifRepo.On("UpdateDelivery", mock.Anything, mock.Anything, domain.NotifStatusSent, (*string)(nil)).Return(nil).Once()

		notif, err := f.svc.Send(ctx, user.ID, domain.NotifContactShared, data)
		f.svc.Wait()

		require.NoError(t, err)
		assert.Equal(t, domain.NotifContactShared, notif.Type)
		f.email.AssertExpectations(t)
		f.sms.AssertExpectations(t)
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("records failure when a channel errors", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		f := newFixture(t)
		user := recipient()

		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.prefRepo.On("Get", ctx, user.ID).Return(nil, nil).Once()
		f.notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.email.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.sms.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("gateway timeout")).Once()
		f.notifRepo.On("UpdateDelivery", mock.Anything, mock.Anything, domain.NotifStatusFailed, mock.MatchedBy(func(msg *string) bool {
			return msg != nil && *msg == "gateway timeout"
		})).Return(nil).Once()

		_, err := f.svc.Send(ctx, user.ID, domain.NotifContactShared, data)
		f.svc.Wait()

		require.NoError(t, err)
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("channel none is persisted but skipped", func(t *testing.T) {
		f := newFixture(t)
		user := recipient()
		prefs := domain.DefaultNotificationPreferences(user.ID)
		prefs.JobUpdates = domain.ChannelNone

		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.prefRepo.On("Get", ctx, user.ID).Return(prefs, nil).Once()
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Status == domain.NotifStatusSkipped && n.Recipient == ""
		})).Return(nil).Once()

		_, err := f.svc.Send(ctx, user.ID, domain.NotifJobApproved, map[string]interface{}{"job_title": "Fix sink"})
		f.svc.Wait()

		require.NoError(t, err)
		f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.notifRepo.AssertNotCalled(t, "UpdateDelivery", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("in app only is stored as sent without dispatch", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		f := newFixture(t)
		user := recipient()
		prefs := domain.DefaultNotificationPreferences(user.ID)
		prefs.NewMessage = domain.ChannelInApp

		f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.prefRepo.On("Get", ctx, user.ID).Return(prefs, nil).Once()
		f.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Channel == domain.ChannelInApp && n.Status == domain.NotifStatusSent &&
				n.SentAt != nil && n.Recipient == ""
		})).Return(nil).Once()

		_, err := f.svc.Send(ctx, user.ID, domain.NotifNewMessage, map[string]interface{}{
			"sender_name": "Ada", "job_title": "Fix sink", "preview": "hello",
		})
		f.svc.Wait()

		require.NoError(t, err)
		f.notifRepo.AssertExpectations(t)
		f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		f.notifRepo.AssertNotCalled(t, "UpdateDelivery", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.userRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := f.svc.Send(ctx, id, domain.NotifJobApproved, nil)

		assert.Error(t, err)
	})
}

func TestNotifyIsAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := newFixture(t)
	user := recipient()
	prefs := domain.DefaultNotificationPreferences(user.ID)
	prefs.JobUpdates = domain.ChannelEmail

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.prefRepo.On("Get", mock.Anything, user.ID).Return(prefs, nil).Once()
	f.notifRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.email.On("Send", mock.Anything, "tunde@example.com", "Your job is live: Fix sink", mock.Anything).Return(nil).Once()
	f.notifRepo.On("UpdateDelivery", mock.Anything, mock.Anything, domain.NotifStatusSent, (*string)(nil)).Return(nil).Once()

	f.svc.Notify(ctx, user.ID, domain.NotifJobApproved, map[string]interface{}{"job_title": "Fix sink"})
	f.svc.Wait()

	f.email.AssertExpectations(t)
	f.sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyLogsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	id := uuid.New()
	f.userRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("db down")).Once()

	f.svc.Notify(context.Background(), id, domain.NotifJobApproved, nil)
	f.svc.Wait()

	f.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	notif := &domain.Notification{ID: uuid.New(), UserID: owner}

	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		f.notifRepo.On("GetByID", ctx, notif.ID).Return(notif, nil).Once()
		f.notifRepo.On("MarkAsRead", ctx, notif.ID).Return(nil).Once()

		require.NoError(t, f.svc.MarkAsRead(ctx, owner, notif.ID))
		f.notifRepo.AssertExpectations(t)
	})

	t.Run("someone else", func(t *testing.T) {
		f := newFixture(t)
		f.notifRepo.On("GetByID", ctx, notif.ID).Return(notif, nil).Once()

		err := f.svc.MarkAsRead(ctx, uuid.New(), notif.ID)

		assert.ErrorIs(t, err, notification.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.notifRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		assert.ErrorIs(t, f.svc.MarkAsRead(ctx, owner, id), notification.ErrNotFound)
	})
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("merges into defaults", func(t *testing.T) {
		f := newFixture(t)
		sms := domain.ChannelSMS
		f.prefRepo.On("Get", ctx, userID).Return(nil, nil).Once()
		f.prefRepo.On("Upsert", ctx, mock.MatchedBy(func(p *domain.NotificationPreferences) bool {
			return p.NewMessage == domain.ChannelSMS && p.ContactShared == domain.ChannelBoth
		})).Return(nil).Once()

		prefs, err := f.svc.UpdatePreferences(ctx, userID, domain.UpdatePreferencesInput{NewMessage: &sms})

		require.NoError(t, err)
		assert.Equal(t, domain.ChannelSMS, prefs.NewMessage)
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		f := newFixture(t)
		bad := domain.NotificationChannel("pigeon")
		f.prefRepo.On("Get", ctx, userID).Return(nil, nil).Once()

		_, err := f.svc.UpdatePreferences(ctx, userID, domain.UpdatePreferencesInput{JobUpdates: &bad})

		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		f.prefRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
