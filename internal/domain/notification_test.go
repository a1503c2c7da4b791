package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/internal/domain"
)

func TestNotificationChannel(t *testing.T) {
	tests := []struct {
		channel  domain.NotificationChannel
		valid    bool
		delivers bool
	}{
		{domain.ChannelEmail, true, true},
		{domain.ChannelSMS, true, true},
		{domain.ChannelBoth, true, true},
		{domain.ChannelInApp, true, false},
		{domain.ChannelNone, true, false},
		{"push", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.channel.IsValid())
			assert.Equal(t, tt.delivers, tt.channel.Delivers())
		})
	}
}

func TestUpdatePreferencesInput_Apply(t *testing.T) {
	prefs := domain.DefaultNotificationPreferences(uuid.New())
	inApp := domain.ChannelInApp

	require.NoError(t, domain.UpdatePreferencesInput{NewMessage: &inApp}.Apply(prefs))
	assert.Equal(t, domain.ChannelInApp, prefs.NewMessage)
	assert.Equal(t, domain.ChannelInApp, prefs.ChannelFor(domain.NotifNewMessage))

	bad := domain.NotificationChannel("push")
	err := domain.UpdatePreferencesInput{Marketing: &bad}.Apply(prefs)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.ChannelNone, prefs.Marketing)
}
