package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/job"
)

type JobHandler struct {
	jobService job.Service
}

func NewJobHandler(jobService job.Service) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func jobError(err error) error {
	var terr *job.TransitionError
	switch {
	case errors.As(err, &terr):
		return middleware.BadRequest(terr.Error())
	case errors.Is(err, job.ErrJobNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, job.ErrHomeownerOnly), errors.Is(err, job.ErrNotJobOwner):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, job.ErrJobNotEditable), errors.Is(err, job.ErrInvalidStatus):
		return middleware.BadRequest(err.Error())
	case errors.Is(err, job.ErrJobStateChanged):
		return middleware.Conflict(err.Error())
	}
	return err
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.jobService.Create(c.UserContext(), middleware.GetCurrentUser(c), input)
	if err != nil {
		return jobError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *JobHandler) Browse(c *fiber.Ctx) error {
	filter := domain.JobFilter{
		Category: c.Query("category"),
		State:    c.Query("state"),
		LGA:      c.Query("lga"),
		Town:     c.Query("town"),
		Location: c.Query("location"),
		Query:    c.Query("q"),
	}
	if v := c.QueryInt("budget_min", -1); v >= 0 {
		lo := int64(v)
		filter.BudgetMin = &lo
	}
	if v := c.QueryInt("budget_max", -1); v >= 0 {
		hi := int64(v)
		filter.BudgetMax = &hi
	}

	jobs, err := h.jobService.Browse(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	found, err := h.jobService.GetByID(c.UserContext(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return jobError(err)
	}
	return c.JSON(found)
}

func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	jobs, err := h.jobService.ListMine(c.UserContext(), middleware.GetCurrentUserID(c), c.Query("status"), getPaginationParams(c))
	if err != nil {
		return jobError(err)
	}
	return c.JSON(jobs)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateJobInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.jobService.Update(c.UserContext(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return jobError(err)
	}
	return c.JSON(updated)
}

func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateJobStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.jobService.UpdateStatus(c.UserContext(), middleware.GetCurrentUser(c), id, input.Status)
	if err != nil {
		return jobError(err)
	}
	return c.JSON(updated)
}
