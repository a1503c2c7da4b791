package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"servicehub/internal/domain"
	"servicehub/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

// Authenticator is the part of auth.Service the middleware needs.
type Authenticator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func AuthRequired(authService Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, authService)
		if err != nil {
			return err
		}
		if user == nil {
			return Unauthorized("Not authenticated")
		}

		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets anonymous requests through.
func OptionalAuth(authService Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		user, err := authenticate(c, authService)
		if err != nil {
			return err
		}
		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, authService Authenticator) (*domain.User, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, Unauthorized("Invalid authorization header format")
	}

	claims, err := authService.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}

	user, err := authService.GetUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, Unauthorized("User not found")
	}
	if !user.IsActive() {
		return nil, Forbidden("Account is " + string(user.Status))
	}
	return user, nil
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
