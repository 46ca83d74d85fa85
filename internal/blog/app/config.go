package app

import (
	"os"
	"strconv"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
)

type Config struct {
	Issuer      string // Optional: issuer claim for session tokens (default: inkwell)
	TokenSecret string // Required: HMAC secret for session tokens

	EncryptionPassphrase string // Required: passphrase deriving the field encryption key

	BaseURL       string        // Optional: external URL prefix for reset links (default: http://localhost:8080)
	ResetTokenTTL time.Duration // Optional: reset token lifetime; 0 keeps tokens valid until consumed

	MaxLoginAttempts int           // Optional: failed sign-ins before lockout (default: 5)
	LockDuration     time.Duration // Optional: lockout window (default: 30m)
	SessionTTL       time.Duration // Optional: session token lifetime (default: 1h)

	SMTPHost     string // Optional: SMTP relay host; empty disables outbound mail
	SMTPPort     int    // Optional: SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // Optional: From address on reset mail

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./inkwell.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("INKWELL_ISSUER", "inkwell"),
		TokenSecret:          os.Getenv("TOKEN_SECRET"),
		EncryptionPassphrase: os.Getenv("ENCRYPTION_PASSPHRASE"),
		BaseURL:              getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		ResetTokenTTL:        getEnvDurationOrDefault("RESET_TOKEN_TTL", 0),
		MaxLoginAttempts:     getEnvIntOrDefault("MAX_LOGIN_ATTEMPTS", service.DefaultMaxAttempts),
		LockDuration:         getEnvDurationOrDefault("LOCK_DURATION", service.DefaultLockDuration),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             getEnvOrDefault("SMTP_FROM", "no-reply@inkwell.local"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "inkwell.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
