package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func messageError(err error) error {
	switch {
	case errors.Is(err, message.ErrJobNotFound), errors.Is(err, message.ErrConversationNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, message.ErrNotParticipant),
		errors.Is(err, message.ErrNotJobOwner),
		errors.Is(err, message.ErrAccessRequired),
		errors.Is(err, message.ErrMessagingLocked),
		errors.Is(err, message.ErrRoleCannotMessage):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, message.ErrTradespersonRequired),
		errors.Is(err, message.ErrContentRequired),
		errors.Is(err, message.ErrAttachmentRequired),
		errors.Is(err, message.ErrInvalidMessageType):
		return middleware.BadRequest(err.Error())
	}
	return storageError(err)
}

func (h *MessageHandler) StartConversation(c *fiber.Ctx) error {
	var input domain.StartConversationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	conv, created, err := h.messageService.StartConversation(c.UserContext(), middleware.GetCurrentUser(c), input)
	if err != nil {
		return messageError(err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(conv)
}

func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	res, err := h.messageService.ListConversations(c.UserContext(), middleware.GetCurrentUserID(c), getPaginationParams(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	conv, err := h.messageService.GetConversation(c.UserContext(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		return messageError(err)
	}
	return c.JSON(conv)
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.messageService.ListMessages(c.UserContext(), middleware.GetCurrentUserID(c), id, getPaginationParams(c))
	if err != nil {
		return messageError(err)
	}
	return c.JSON(res)
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	msg, err := h.messageService.SendMessage(c.UserContext(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return messageError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer file.Reader.Close()

	obj, err := h.messageService.UploadAttachment(c.UserContext(), middleware.GetCurrentUserID(c), id, file.FileName, file.ContentType, file.Reader, file.Size)
	if err != nil {
		return messageError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(obj)
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	n, err := h.messageService.MarkRead(c.UserContext(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		return messageError(err)
	}
	return c.JSON(fiber.Map{"marked_read": n})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.messageService.UnreadCount(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unread_count": n})
}
