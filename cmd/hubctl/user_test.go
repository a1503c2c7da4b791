package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"servicehub/internal/domain"
)

func TestNewAdmin(t *testing.T) {
	user, err := newAdmin("  Ops@ServiceHub.NG ", "Ops Team", "s3cret-pass", domain.AdminRoleFinanceManager)
	require.NoError(t, err)

	assert.Equal(t, "ops@servicehub.ng", user.Email)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	require.NotNil(t, user.AdminRole)
	assert.Equal(t, domain.AdminRoleFinanceManager, *user.AdminRole)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestNewAdmin_Rejects(t *testing.T) {
	tests := []struct {
		name, email, display, password string
		role                           domain.AdminRole
	}{
		{"bad email", "ops", "Ops", "s3cret-pass", domain.AdminRoleSuper},
		{"short name", "ops@x.ng", "O", "s3cret-pass", domain.AdminRoleSuper},
		{"short password", "ops@x.ng", "Ops", "short", domain.AdminRoleSuper},
		{"unknown role", "ops@x.ng", "Ops", "s3cret-pass", domain.AdminRole("janitor")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newAdmin(tt.email, tt.display, tt.password, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestHashStatus(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.Equal(t, "MISSING", hashStatus(""))
	assert.Contains(t, hashStatus("plaintext"), "INVALID")
	assert.Equal(t, "bcrypt, cost 4", hashStatus(string(hash)))
}

func TestRoleLabel(t *testing.T) {
	support := domain.AdminRoleSupport
	assert.Equal(t, "admin (support)", roleLabel(&domain.User{Role: domain.RoleAdmin, AdminRole: &support}))
	assert.Equal(t, "homeowner", roleLabel(&domain.User{Role: domain.RoleHomeowner}))
}
