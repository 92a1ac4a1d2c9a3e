package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/redmonkez12/storefront-api/internal/token"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins for cookie auth
}

type DatabaseConfig struct {
	// postgres:// URL, or a SQLite file path / file::memory:
	URL string
}

type AuthConfig struct {
	TokenFormat token.Format
	// HMAC secret for JWT
	JWTSecret []byte
	// symmetric key for PASETO v4.local, exactly 32 bytes
	PasetoKey    []byte
	TokenTTL     time.Duration
	CookieSecure bool
}

// Load reads configuration from environment variables, loading .env first
// when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttl, err := ParseTTL(os.Getenv("JWT_EXPIRES"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8000"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "file:storefront.db?_pragma=foreign_keys(1)"),
		},
		Auth: AuthConfig{
			TokenFormat:  token.Format(strings.ToLower(getEnv("AUTH_TOKEN_FORMAT", string(token.FormatJWT)))),
			JWTSecret:    []byte(os.Getenv("JWT_SECRET_KEY")),
			PasetoKey:    []byte(os.Getenv("PASETO_KEY")),
			TokenTTL:     ttl,
			CookieSecure: getBoolEnv("COOKIE_SECURE", false),
		},
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the secret for the selected token format is usable
func (c *AuthConfig) Validate() error {
	switch c.TokenFormat {
	case token.FormatJWT:
		if len(c.JWTSecret) == 0 {
			return errors.New("JWT_SECRET_KEY is required when AUTH_TOKEN_FORMAT=jwt")
		}
	case token.FormatPaseto:
		if len(c.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.PasetoKey))
		}
	default:
		return fmt.Errorf("unknown AUTH_TOKEN_FORMAT %q", c.TokenFormat)
	}
	return nil
}

// Secret returns the key material for the selected token format
func (c *AuthConfig) Secret() []byte {
	if c.TokenFormat == token.FormatPaseto {
		return c.PasetoKey
	}
	return c.JWTSecret
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

const maxTTLDays = math.MaxInt64 / int64(24*time.Hour)

// ParseTTL accepts a day count ("7d"), a Go duration ("36h") or plain
// seconds ("3600"). Empty input yields token.DefaultTTL.
func ParseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return token.DefaultTTL, nil
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad day count %q", value)
		}
		if int64(n) > maxTTLDays {
			return 0, fmt.Errorf("day count %q out of range", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("non-positive ttl %q", value)
		}
		if int64(seconds) > math.MaxInt64/int64(time.Second) {
			return 0, fmt.Errorf("ttl %q out of range", value)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive ttl %q", value)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return b
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
