package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/interest"
)

type InterestHandler struct {
	interestService interest.Service
}

func NewInterestHandler(interestService interest.Service) *InterestHandler {
	return &InterestHandler{interestService: interestService}
}

func interestError(err error) error {
	switch {
	case errors.Is(err, interest.ErrJobNotFound), errors.Is(err, interest.ErrInterestNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, interest.ErrAlreadyInterested):
		return middleware.Conflict(err.Error())
	case errors.Is(err, interest.ErrTradespersonOnly),
		errors.Is(err, interest.ErrOwnJob),
		errors.Is(err, interest.ErrNotJobOwner),
		errors.Is(err, interest.ErrNotInterestOwner),
		errors.Is(err, interest.ErrAccessRequired):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, interest.ErrJobNotAccepting),
		errors.Is(err, interest.ErrNotPending),
		errors.Is(err, interest.ErrContactNotShared),
		errors.Is(err, interest.ErrAlreadyPaid),
		errors.Is(err, interest.ErrInterestCancelled),
		errors.Is(err, interest.ErrInsufficientBalance):
		return middleware.BadRequest(err.Error())
	}
	return err
}

func (h *InterestHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateInterestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.interestService.Create(c.UserContext(), middleware.GetCurrentUser(c), input)
	if err != nil {
		return interestError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *InterestHandler) ListMine(c *fiber.Ctx) error {
	res, err := h.interestService.ListMine(c.UserContext(), middleware.GetCurrentUserID(c), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *InterestHandler) ListForJob(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	res, err := h.interestService.ListForJob(c.UserContext(), middleware.GetCurrentUser(c), jobID, getPaginationParams(c))
	if err != nil {
		return interestError(err)
	}
	return c.JSON(res)
}

func (h *InterestHandler) ShareContact(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	updated, err := h.interestService.ShareContact(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return interestError(err)
	}
	return c.JSON(updated)
}

func (h *InterestHandler) PayAccess(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.interestService.PayAccess(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return interestError(err)
	}
	return c.JSON(payment)
}

func (h *InterestHandler) ContactDetails(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	details, err := h.interestService.ContactDetails(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return interestError(err)
	}
	return c.JSON(details)
}

func (h *InterestHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.interestService.Withdraw(c.UserContext(), middleware.GetCurrentUser(c), id); err != nil {
		return interestError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
