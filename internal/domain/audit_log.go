package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"audit_id"`
	AdminID    *uuid.UUID      `json:"admin_id" db:"admin_id"`
	AdminName  *string         `json:"admin_name,omitempty" db:"admin_name"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty" db:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type CreateAuditLogInput struct {
	AdminID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Details    interface{}
}

type AuditLogFilter struct {
	Action     string
	EntityType string
	AdminID    *uuid.UUID
}
