package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/middleware"
	"servicehub/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetPublicProfile shows the profile a counterpart on a job is allowed to see.
func (h *UserHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.userService.GetPublicProfile(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return middleware.NotFound(err.Error())
		}
		return err
	}
	return c.JSON(profile)
}
