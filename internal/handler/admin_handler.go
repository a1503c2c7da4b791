package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/admin"
)

type AdminHandler struct {
	adminService admin.Service
}

func NewAdminHandler(adminService admin.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func adminError(err error) error {
	switch {
	case errors.Is(err, admin.ErrUserNotFound),
		errors.Is(err, admin.ErrJobNotFound),
		errors.Is(err, admin.ErrTransactionNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, admin.ErrCannotDeleteSelf),
		errors.Is(err, admin.ErrCannotModifySelf),
		errors.Is(err, admin.ErrProtectedAdmin):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, admin.ErrJobNotPending),
		errors.Is(err, admin.ErrFundingNotPending):
		return middleware.Conflict(err.Error())
	case errors.Is(err, admin.ErrInvalidUserStatus),
		errors.Is(err, admin.ErrNotFunding),
		errors.Is(err, admin.ErrReasonRequired),
		errors.Is(err, admin.ErrInvalidAccessFee):
		return middleware.BadRequest(err.Error())
	}
	return err
}

// Users.

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	filter := domain.UserFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}

	res, err := h.adminService.ListUsers(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.adminService.GetUser(c.UserContext(), id)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(detail)
}

func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateUserStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, err := h.adminService.UpdateUserStatus(c.UserContext(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(user)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := h.adminService.DeleteUser(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(report)
}

// Jobs.

func (h *AdminHandler) ListPendingJobs(c *fiber.Ctx) error {
	res, err := h.adminService.ListPendingJobs(c.UserContext(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AdminHandler) ApproveJob(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	job, err := h.adminService.ApproveJob(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(job)
}

func (h *AdminHandler) RejectJob(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.RejectJobInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	job, err := h.adminService.RejectJob(c.UserContext(), middleware.GetCurrentUser(c), id, input.Reason)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(job)
}

func (h *AdminHandler) UpdateAccessFee(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateAccessFeeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	job, err := h.adminService.UpdateAccessFee(c.UserContext(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(job)
}

// Wallet funding.

func (h *AdminHandler) ListFundingRequests(c *fiber.Ctx) error {
	res, err := h.adminService.ListFundingRequests(c.UserContext(), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AdminHandler) ConfirmFunding(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	tx, err := h.adminService.ConfirmFunding(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(tx)
}

func (h *AdminHandler) RejectFunding(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.RejectFundingInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	tx, err := h.adminService.RejectFunding(c.UserContext(), middleware.GetCurrentUser(c), id, input.Reason)
	if err != nil {
		return adminError(err)
	}
	return c.JSON(tx)
}
