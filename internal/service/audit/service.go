package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

// Entity types recorded in the audit trail.
const (
	EntityUser     = "user"
	EntityJob      = "job"
	EntityFunding  = "wallet_transaction"
	EntityContent  = "content"
	EntityTrade    = "trade"
	EntityQuestion = "quiz_question"
)

type Service interface {
	Record(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, details interface{})
	List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	auditRepo repository.AuditLogRepository
	logger    *zap.Logger
}

func NewService(auditRepo repository.AuditLogRepository, logger *zap.Logger) Service {
	return &service{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes an audit entry. A failed write is logged and never fails the admin action.
func (s *service) Record(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, details interface{}) {
	err := repository.CreateAuditLog(ctx, s.auditRepo, domain.CreateAuditLogInput{
		AdminID:    adminID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	if err != nil {
		s.logger.Error("failed to write audit log",
			zap.String("admin_id", adminID.String()),
			zap.String("action", action),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	logs, total, err := s.auditRepo.List(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params, total), nil
}
