package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	filter := domain.AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if v := c.Query("admin_id"); v != "" {
		adminID, err := uuid.Parse(v)
		if err != nil {
			return middleware.BadRequest("Invalid admin_id")
		}
		filter.AdminID = &adminID
	}

	logs, err := h.auditService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
