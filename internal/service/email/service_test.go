package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/internal/config"
)

func TestRender(t *testing.T) {
	s := NewService(&config.Config{Domain: "servicehub.test"}).(*service)

	html, err := s.render("Welcome <Ada>", "<p>Hello</p>")

	require.NoError(t, err)
	assert.Contains(t, html, "<p>Hello</p>")
	assert.Contains(t, html, "<title>Welcome &lt;Ada&gt;</title>")
	assert.Contains(t, html, "https://servicehub.test/settings/notifications")
}

func TestSend_NotConfigured(t *testing.T) {
	s := NewService(&config.Config{})

	err := s.Send(context.Background(), "ada@example.com", "Hi", "<p>Hi</p>")

	assert.EqualError(t, err, "email is not configured")
}
