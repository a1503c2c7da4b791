package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/auth"
)

type fakeAuth struct {
	users map[string]*domain.User
}

func (f *fakeAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeAuth) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newApp(a middleware.Authenticator, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop())})
	app.Use(middleware.RequestIDHandler())
	chain := append([]fiber.Handler{middleware.AuthRequired(a)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": middleware.GetCurrentUserID(c)})
	})
	app.Get("/me", chain...)
	return app
}

func decode(t *testing.T, app *fiber.App, token string) (int, middleware.ErrorResponse) {
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body middleware.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func users() *fakeAuth {
	adminRole := domain.AdminRoleContentManager
	return &fakeAuth{users: map[string]*domain.User{
		"home":      {ID: uuid.New(), Role: domain.RoleHomeowner, Status: domain.UserStatusActive},
		"suspended": {ID: uuid.New(), Role: domain.RoleHomeowner, Status: domain.UserStatusSuspended},
		"cms":       {ID: uuid.New(), Role: domain.RoleAdmin, AdminRole: &adminRole, Status: domain.UserStatusActive},
	}}
}

func TestAuthRequired(t *testing.T) {
	app := newApp(users())

	t.Run("missing token", func(t *testing.T) {
		status, body := decode(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Not authenticated", body.Detail)
		assert.Equal(t, "UNAUTHORIZED", body.Code)
		assert.NotEmpty(t, body.TraceID)
	})

	t.Run("bad token", func(t *testing.T) {
		status, _ := decode(t, app, "forged")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("suspended user", func(t *testing.T) {
		status, body := decode(t, app, "suspended")
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "Account is suspended", body.Detail)
	})

	t.Run("active user", func(t *testing.T) {
		status, _ := decode(t, app, "home")
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestRequireRole(t *testing.T) {
	app := newApp(users(), middleware.RequireRole(domain.RoleTradesperson))

	status, body := decode(t, app, "home")

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestRequirePermission(t *testing.T) {
	t.Run("granted", func(t *testing.T) {
		app := newApp(users(), middleware.RequirePermission(domain.PermManageContent))
		status, _ := decode(t, app, "cms")
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("role lacks permission", func(t *testing.T) {
		app := newApp(users(), middleware.RequirePermission(domain.PermManageWallets))
		status, _ := decode(t, app, "cms")
		assert.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("not an admin", func(t *testing.T) {
		app := newApp(users(), middleware.RequirePermission(domain.PermViewStats))
		status, body := decode(t, app, "home")
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "Admin access required", body.Detail)
	})
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/invalid", func(c *fiber.Ctx) error { return domain.NewValidationError("title must be at least 10 characters") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return middleware.Conflict("email already registered") })

	cases := []struct {
		path   string
		status int
		detail string
		code   string
	}{
		{"/boom", 500, "Internal server error", "INTERNAL_ERROR"},
		{"/invalid", 422, "Title must be at least 10 characters", "VALIDATION_ERROR"},
		{"/conflict", 409, "Email already registered", "CONFLICT"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
			require.NoError(t, err)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.detail, body.Detail)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
