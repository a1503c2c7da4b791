package service

import (
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/pkg/cache"
	"servicehub/internal/pkg/templates"
	"servicehub/internal/repository"
	"servicehub/internal/service/admin"
	"servicehub/internal/service/audit"
	"servicehub/internal/service/auth"
	"servicehub/internal/service/content"
	"servicehub/internal/service/dashboard"
	"servicehub/internal/service/email"
	"servicehub/internal/service/interest"
	"servicehub/internal/service/job"
	"servicehub/internal/service/message"
	"servicehub/internal/service/notification"
	"servicehub/internal/service/quiz"
	"servicehub/internal/service/sms"
	"servicehub/internal/service/trade"
	"servicehub/internal/service/user"
	"servicehub/internal/service/wallet"
	"servicehub/internal/storage"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Job          job.Service
	Interest     interest.Service
	Message      message.Service
	Wallet       wallet.Service
	Notification notification.Service
	Content      content.Service
	Trade        trade.Service
	Quiz         quiz.Service
	Audit        audit.Service
	Dashboard    dashboard.Service
	Admin        admin.Service
}

func NewServices(
	repos *repository.Repositories,
	cacheStore cache.Store,
	store storage.Storage,
	registry *templates.Registry,
	cfg *config.Config,
	logger *zap.Logger,
) (*Services, error) {
	emailService := email.NewService(cfg)
	smsService := sms.NewService(cfg, logger)
	dispatcher := notification.NewDispatcher(repos.Notification, emailService, smsService, logger)
	notificationService := notification.NewService(repos.Notification, repos.Preference, repos.User, registry, dispatcher, logger)

	contentService, err := content.NewService(repos.Content, cacheStore, store, logger)
	if err != nil {
		return nil, err
	}

	auditService := audit.NewService(repos.AuditLog, logger)
	dashboardService := dashboard.NewService(repos.Stats, cacheStore, logger)

	return &Services{
		Auth:         auth.NewService(repos.User, repos.Session, repos.Wallet, notificationService, cacheStore, cfg, logger),
		User:         user.NewService(repos.User, repos.Session, store, logger),
		Job:          job.NewService(repos.Job, repos.Interest, notificationService, cfg, logger),
		Interest:     interest.NewService(repos.Interest, repos.Job, repos.User, notificationService, logger),
		Message:      message.NewService(repos.Conversation, repos.Interest, repos.Job, store, notificationService, logger),
		Wallet:       wallet.NewService(repos.Wallet, repos.Job, store, cfg, logger),
		Notification: notificationService,
		Content:      contentService,
		Trade:        trade.NewService(repos.Trade),
		Quiz:         quiz.NewService(repos.Quiz, repos.Trade),
		Audit:        auditService,
		Dashboard:    dashboardService,
		Admin:        admin.NewService(repos, auditService, dashboardService, notificationService, cfg, logger),
	}, nil
}
