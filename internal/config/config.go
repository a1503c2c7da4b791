package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string

	RedisURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	Domain       string

	SMSBaseURL  string
	SMSAPIKey   string
	SMSSenderID string
	SMSTimeout  time.Duration

	TemplatesPath string

	AutoApproveJobs       bool
	DefaultAccessFeeNaira int64
	DefaultAccessFeeCoins int64
	CoinValueNaira        int64
	MinFundingNaira       int64

	ContentPublishInterval time.Duration
	SessionCleanupInterval time.Duration

	LoginRateLimit  int64
	LoginRateWindow time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 30*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "servicehub-media"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@servicehub.ng"),
		Domain:       getEnv("DOMAIN", "localhost:3000"),

		SMSBaseURL:  getEnv("SMS_BASE_URL", "https://api.ng.termii.com"),
		SMSAPIKey:   getEnv("SMS_API_KEY", ""),
		SMSSenderID: getEnv("SMS_SENDER_ID", "ServiceHub"),
		SMSTimeout:  getDurationEnv("SMS_TIMEOUT", 10*time.Second),

		TemplatesPath: getEnv("TEMPLATES_PATH", "templates/notifications.yaml"),

		AutoApproveJobs:       getBoolEnv("AUTO_APPROVE_JOBS", false),
		DefaultAccessFeeNaira: getInt64Env("DEFAULT_ACCESS_FEE_NAIRA", 1000),
		DefaultAccessFeeCoins: getInt64Env("DEFAULT_ACCESS_FEE_COINS", 10),
		CoinValueNaira:        getInt64Env("COIN_VALUE_NAIRA", 100),
		MinFundingNaira:       getInt64Env("MIN_FUNDING_NAIRA", 1500),

		ContentPublishInterval: getDurationEnv("CONTENT_PUBLISH_INTERVAL", time.Minute),
		SessionCleanupInterval: getDurationEnv("SESSION_CLEANUP_INTERVAL", time.Hour),

		LoginRateLimit:  getInt64Env("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getDurationEnv("LOGIN_RATE_WINDOW", 15*time.Minute),
	}
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.CoinValueNaira <= 0 {
		return fmt.Errorf("COIN_VALUE_NAIRA must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
