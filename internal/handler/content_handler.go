package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/audit"
	"servicehub/internal/service/content"
)

type ContentHandler struct {
	contentService content.Service
	auditService   audit.Service
}

func NewContentHandler(contentService content.Service, auditService audit.Service) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		auditService:   auditService,
	}
}

func contentError(err error) error {
	switch {
	case errors.Is(err, content.ErrContentNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, content.ErrSlugTaken):
		return middleware.Conflict(err.Error())
	case errors.Is(err, content.ErrInvalidType),
		errors.Is(err, content.ErrInvalidStatus),
		errors.Is(err, content.ErrTitleRequired),
		errors.Is(err, content.ErrPublishDateInPast),
		errors.Is(err, content.ErrInvalidTransition):
		return middleware.BadRequest(err.Error())
	}
	return storageError(err)
}

func (h *ContentHandler) record(c *fiber.Ctx, action string, item *domain.ContentItem) {
	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), action, audit.EntityContent, item.ID, fiber.Map{
		"title":  item.Title,
		"status": item.Status,
	})
}

func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateContentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	item, err := h.contentService.Create(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return contentError(err)
	}

	h.record(c, "create", item)
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	filter := domain.ContentFilter{
		ContentType: c.Query("content_type"),
		Status:      c.Query("status"),
		Category:    c.Query("category"),
		Tag:         c.Query("tag"),
		Query:       c.Query("q"),
	}
	if c.Query("featured") != "" {
		featured := c.QueryBool("featured")
		filter.Featured = &featured
	}

	res, err := h.contentService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return contentError(err)
	}
	return c.JSON(res)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.contentService.Get(c.UserContext(), id)
	if err != nil {
		return contentError(err)
	}
	return c.JSON(item)
}

func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateContentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	item, err := h.contentService.Update(c.UserContext(), id, input)
	if err != nil {
		return contentError(err)
	}

	h.record(c, "update", item)
	return c.JSON(item)
}

func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.contentService.Delete(c.UserContext(), id); err != nil {
		return contentError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "delete", audit.EntityContent, id, nil)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) Publish(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.contentService.Publish(c.UserContext(), id)
	if err != nil {
		return contentError(err)
	}

	h.record(c, "publish", item)
	return c.JSON(item)
}

func (h *ContentHandler) Schedule(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.ScheduleContentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.PublishDate.IsZero() {
		return middleware.BadRequest("publish_date is required")
	}

	item, err := h.contentService.Schedule(c.UserContext(), id, input.PublishDate)
	if err != nil {
		return contentError(err)
	}

	h.record(c, "schedule", item)
	return c.JSON(item)
}

func (h *ContentHandler) Archive(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.contentService.Archive(c.UserContext(), id)
	if err != nil {
		return contentError(err)
	}

	h.record(c, "archive", item)
	return c.JSON(item)
}

func (h *ContentHandler) UploadMedia(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer file.Reader.Close()

	obj, err := h.contentService.UploadMedia(c.UserContext(), file.FileName, file.ContentType, file.Reader, file.Size)
	if err != nil {
		return contentError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(obj)
}

// Public endpoints.

func (h *ContentHandler) GetPublished(c *fiber.Ctx) error {
	item, err := h.contentService.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return contentError(err)
	}
	return c.JSON(item)
}

func (h *ContentHandler) ListBlog(c *fiber.Ctx) error {
	return h.listPublished(c, content.ListBlog)
}

func (h *ContentHandler) ListJobPosts(c *fiber.Ctx) error {
	return h.listPublished(c, content.ListJobs)
}

func (h *ContentHandler) ListFeatured(c *fiber.Ctx) error {
	return h.listPublished(c, content.ListFeatured)
}

func (h *ContentHandler) listPublished(c *fiber.Ctx, kind string) error {
	res, err := h.contentService.ListPublished(c.UserContext(), kind, getPaginationParams(c))
	if err != nil {
		return contentError(err)
	}
	return c.JSON(res)
}
