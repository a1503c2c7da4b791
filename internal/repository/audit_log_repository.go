package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if len(log.Details) == 0 {
		log.Details = []byte("{}")
	}

	query := `
		INSERT INTO audit_logs (audit_id, admin_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		log.ID, log.AdminID, log.Action, log.EntityType, log.EntityID, []byte(log.Details),
	).Scan(&log.CreatedAt)
}

func (r *auditLogRepository) List(ctx context.Context, filter domain.AuditLogFilter, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	where := `
		WHERE ($1::text = '' OR al.action = $1::text)
			AND ($2::text = '' OR al.entity_type = $2::text)
			AND ($3::uuid IS NULL OR al.admin_id = $3::uuid)`

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_logs al` + where
	if err := r.db.GetContext(ctx, &total, countQuery, filter.Action, filter.EntityType, filter.AdminID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			al.*,
			u.name AS admin_name
		FROM audit_logs al
		LEFT JOIN users u ON al.admin_id = u.user_id` + where + `
		ORDER BY al.created_at DESC
		LIMIT $4 OFFSET $5`

	var logs []domain.AuditLog
	err := r.db.SelectContext(ctx, &logs, query,
		filter.Action, filter.EntityType, filter.AdminID, params.PageSize, params.Offset())
	return logs, total, err
}

// CreateAuditLog records an admin action. Details are marshalled to JSON; a value
// that cannot be marshalled is stored as an empty object.
func CreateAuditLog(ctx context.Context, repo AuditLogRepository, input domain.CreateAuditLogInput) error {
	details, err := json.Marshal(input.Details)
	if err != nil || input.Details == nil {
		details = []byte("{}")
	}

	adminID := input.AdminID
	entityID := input.EntityID
	log := &domain.AuditLog{
		ID:         uuid.New(),
		AdminID:    &adminID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   &entityID,
		Details:    details,
	}

	return repo.Create(ctx, log)
}
