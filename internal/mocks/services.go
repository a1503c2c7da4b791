package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"servicehub/internal/domain"
	"servicehub/internal/service/interest"
	"servicehub/internal/service/trade"
	"servicehub/internal/service/wallet"
	"servicehub/internal/storage"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	args := m.Called(ctx, toEmail, subject, htmlBody)
	return args.Error(0)
}

type SMSService struct {
	mock.Mock
}

func (m *SMSService) Send(ctx context.Context, phone, text string) error {
	args := m.Called(ctx, phone, text)
	return args.Error(0)
}

// NotificationService records Notify calls synchronously so tests can assert on them.
type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{}) {
	m.Called(ctx, userID, notifType, data)
}

func (m *NotificationService) Send(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, data map[string]interface{}) (*domain.Notification, error) {
	args := m.Called(ctx, userID, notifType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreferences), args.Error(1)
}

func (m *NotificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (*domain.NotificationPreferences, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreferences), args.Error(1)
}

func (m *NotificationService) CreateDefaultPreferences(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) Wait() {}

type Storage struct {
	mock.Mock
}

func (m *Storage) Save(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (*storage.Object, error) {
	args := m.Called(ctx, folder, fileName, contentType, reader, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *Storage) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type CacheStore struct {
	mock.Mock
}

func (m *CacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *CacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *CacheStore) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *CacheStore) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *CacheStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

type AuditService struct {
	mock.Mock
}

func (m *AuditService) Record(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, details interface{}) {
	m.Called(ctx, adminID, action, entityType, entityID, details)
}

func (m *AuditService) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.AuditLog]), args.Error(1)
}

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

type InterestService struct {
	mock.Mock
}

func (m *InterestService) Create(ctx context.Context, user *domain.User, input domain.CreateInterestInput) (*domain.Interest, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *InterestService) ListMine(ctx context.Context, tradespersonID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithJob], error) {
	args := m.Called(ctx, tradespersonID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.InterestWithJob]), args.Error(1)
}

func (m *InterestService) ListForJob(ctx context.Context, user *domain.User, jobID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.InterestWithTradesperson], error) {
	args := m.Called(ctx, user, jobID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.InterestWithTradesperson]), args.Error(1)
}

func (m *InterestService) ShareContact(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Interest, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interest), args.Error(1)
}

func (m *InterestService) PayAccess(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.AccessPayment, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessPayment), args.Error(1)
}

func (m *InterestService) ContactDetails(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.ContactDetails, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactDetails), args.Error(1)
}

func (m *InterestService) Withdraw(ctx context.Context, user *domain.User, id uuid.UUID) error {
	return m.Called(ctx, user, id).Error(0)
}

var _ interest.Service = (*InterestService)(nil)

type WalletService struct {
	mock.Mock
}

func (m *WalletService) Balance(ctx context.Context, userID uuid.UUID) (*domain.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletBalance), args.Error(1)
}

func (m *WalletService) Transactions(ctx context.Context, userID uuid.UUID, txType string, params domain.PaginationParams) (domain.PaginatedResponse[domain.WalletTransaction], error) {
	args := m.Called(ctx, userID, txType, params)
	return args.Get(0).(domain.PaginatedResponse[domain.WalletTransaction]), args.Error(1)
}

func (m *WalletService) RequestFunding(ctx context.Context, userID uuid.UUID, input wallet.FundingInput) (*domain.WalletTransaction, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletTransaction), args.Error(1)
}

func (m *WalletService) CheckAccess(ctx context.Context, userID, jobID uuid.UUID) (*domain.AccessCheck, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessCheck), args.Error(1)
}

var _ wallet.Service = (*WalletService)(nil)

type TradeService struct {
	mock.Mock
}

func (m *TradeService) List(ctx context.Context, activeOnly bool) ([]domain.Trade, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Trade), args.Error(1)
}

func (m *TradeService) Get(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *TradeService) Create(ctx context.Context, input domain.TradeInput) (*domain.Trade, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *TradeService) Update(ctx context.Context, id uuid.UUID, input domain.TradeInput) (*domain.Trade, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trade), args.Error(1)
}

func (m *TradeService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var _ trade.Service = (*TradeService)(nil)
