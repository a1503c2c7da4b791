package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/auth"
	"servicehub/internal/service/user"
)

type AuthHandler struct {
	authService auth.Service
	userService user.Service
}

func NewAuthHandler(authService auth.Service, userService user.Service) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func authResponse(u *domain.User, tokens *domain.TokenPair) fiber.Map {
	return fiber.Map{
		"user":          u,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"token_type":    tokens.TokenType,
		"expires_in":    tokens.ExpiresIn,
	}
}

func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return middleware.Conflict(err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return middleware.Unauthorized(err.Error())
	case errors.Is(err, auth.ErrAccountSuspended):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, auth.ErrTooManyAttempts):
		return middleware.TooManyRequests(err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
		return middleware.Unauthorized(err.Error())
	}
	return err
}

func (h *AuthHandler) RegisterHomeowner(c *fiber.Ctx) error {
	var input domain.RegisterHomeownerInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, tokens, err := h.authService.RegisterHomeowner(c.UserContext(), input)
	if err != nil {
		return authError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(u, tokens))
}

func (h *AuthHandler) RegisterTradesperson(c *fiber.Ctx) error {
	var input domain.RegisterTradespersonInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, tokens, err := h.authService.RegisterTradesperson(c.UserContext(), input)
	if err != nil {
		return authError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(u, tokens))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, tokens, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return authError(err)
	}
	return c.JSON(authResponse(u, tokens))
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return middleware.BadRequest("refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), input.RefreshToken)
	if err != nil {
		return authError(err)
	}
	return c.JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.GetCurrentUser(c))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var input domain.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, err := h.userService.UpdateProfile(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return middleware.NotFound(err.Error())
		}
		return err
	}
	return c.JSON(u)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input domain.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.userService.ChangePassword(c.UserContext(), middleware.GetCurrentUserID(c), input); err != nil {
		if errors.Is(err, user.ErrIncorrectPassword) {
			return middleware.BadRequest(err.Error())
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return middleware.BadRequest("email is required")
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "If the email exists, a reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return middleware.BadRequest("token is required")
	}

	if err := h.authService.ResetPassword(c.UserContext(), input.Token, input.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenExpired) {
			return middleware.BadRequest("Invalid or expired reset token")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Password has been reset successfully"})
}

func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer file.Reader.Close()

	u, err := h.userService.UploadAvatar(c.UserContext(), middleware.GetCurrentUserID(c), file.FileName, file.ContentType, file.Reader, file.Size)
	if err != nil {
		if errors.Is(err, user.ErrNotAnImage) {
			return middleware.BadRequest(err.Error())
		}
		return storageError(err)
	}
	return c.JSON(u)
}
