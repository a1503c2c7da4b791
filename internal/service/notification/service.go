package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/templates"
	"servicehub/internal/repository"
)

var (
	ErrNotFound  = errors.New("notification not found")
	ErrForbidden = errors.New("notification belongs to another user")
)

// Notifier is what other services use to raise notifications.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{})
}

type Service interface {
	Notifier
	Send(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{}) (*domain.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (*domain.NotificationPreferences, error)
	CreateDefaultPreferences(ctx context.Context, userID uuid.UUID) error
	Wait()
}

type service struct {
	notifRepo  repository.NotificationRepository
	prefRepo   repository.PreferenceRepository
	userRepo   repository.UserRepository
	registry   *templates.Registry
	dispatcher *Dispatcher
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewService(
	notifRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	userRepo repository.UserRepository,
	registry *templates.Registry,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) Service {
	return &service{
		notifRepo:  notifRepo,
		prefRepo:   prefRepo,
		userRepo:   userRepo,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Notify builds and sends a notification without blocking the caller. Failures are logged.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()

		if _, err := s.Send(bg, userID, notifType, data); err != nil {
			s.logger.Error("failed to create notification",
				zap.String("user_id", userID.String()),
				zap.String("type", string(notifType)),
				zap.Error(err),
			)
		}
	}()
}

// Send resolves the user's channel, renders the template and persists the record.
// Delivery itself happens asynchronously on the dispatcher.
func (s *service) Send(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{}) (*domain.Notification, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	channel := prefs.ChannelFor(notifType)

	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if _, ok := payload["name"]; !ok {
		payload["name"] = user.Name
	}

	rendered, err := s.registry.Render(string(notifType), payload)
	if err != nil {
		return nil, err
	}

	templateData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal template data: %w", err)
	}

	notif := &domain.Notification{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         notifType,
		Channel:      channel,
		Recipient:    recipientFor(channel, user),
		Subject:      rendered.Subject,
		Content:      rendered.SMS,
		TemplateData: templateData,
		Status:       domain.NotifStatusPending,
	}
	switch channel {
	case domain.ChannelNone:
		notif.Status = domain.NotifStatusSkipped
	case domain.ChannelInApp:
		now := time.Now()
		notif.Status = domain.NotifStatusSent
		notif.SentAt = &now
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	if channel.Delivers() {
		s.dispatcher.dispatch(delivery{
			notif: notif,
			email: user.Email,
			phone: user.Phone,
			html:  rendered.HTML,
			sms:   rendered.SMS,
		})
	}

	return notif, nil
}

func recipientFor(channel domain.NotificationChannel, user *domain.User) string {
	switch channel {
	case domain.ChannelEmail:
		return user.Email
	case domain.ChannelSMS:
		return user.Phone
	case domain.ChannelBoth:
		return user.Email + "," + user.Phone
	default:
		return ""
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil {
		return ErrNotFound
	}
	if notif.UserID != userID {
		return ErrForbidden
	}
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return domain.DefaultNotificationPreferences(userID), nil
	}
	return prefs, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (*domain.NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := input.Apply(prefs); err != nil {
		return nil, err
	}
	if err := s.prefRepo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *service) CreateDefaultPreferences(ctx context.Context, userID uuid.UUID) error {
	prefs := domain.DefaultNotificationPreferences(userID)
	prefs.UpdatedAt = time.Now()
	return s.prefRepo.Upsert(ctx, prefs)
}

// Wait blocks until queued notifications are persisted and dispatched.
func (s *service) Wait() {
	s.wg.Wait()
	s.dispatcher.Wait()
}
