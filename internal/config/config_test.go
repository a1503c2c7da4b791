package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/servicehub")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1000), cfg.DefaultAccessFeeNaira)
	assert.Equal(t, int64(10), cfg.DefaultAccessFeeCoins)
	assert.Equal(t, int64(100), cfg.CoinValueNaira)
	assert.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	assert.False(t, cfg.AutoApproveJobs)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTO_APPROVE_JOBS", "true")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("DEFAULT_ACCESS_FEE_COINS", "25")
	t.Setenv("MIN_FUNDING_NAIRA", "not-a-number")

	cfg := Load()

	assert.True(t, cfg.AutoApproveJobs)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, int64(25), cfg.DefaultAccessFeeCoins)
	assert.Equal(t, int64(1500), cfg.MinFundingNaira)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://x", JWTSecret: "s", CoinValueNaira: 100, LogLevel: "info"}
	assert.NoError(t, cfg.Validate())

	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.LogLevel = "info"
	cfg.JWTSecret = ""
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.JWTSecret = "s"
	cfg.DatabaseURL = ""
	assert.EqualError(t, cfg.Validate(), "DATABASE_URL is required")
}
