// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBakeDateFormats is the ordered list of layouts accepted for the
// bake-date setting. First successful parse wins.
var DefaultBakeDateFormats = []string{
	"01/02/2006", // MM/DD/YYYY
	"01/02/06",   // MM/DD/YY
	"2006-01-02", // YYYY-MM-DD
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // public base URL, used to build unsubscribe links

	// Row store backend: "sheets", "postgres", or "memory"
	RowStoreDriver  string
	RowStoreTimeout time.Duration

	// Google Sheets backend
	SheetID           string
	GoogleCredentials string // service account JSON, verbatim

	// PostgreSQL backend
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (optional — serializes concurrent subscribe calls)
	RedisAddr     string
	RedisPassword string

	// Mail channel: "api", "smtp", or "" (log only)
	MailChannel string
	MailFrom    string

	// Transactional mail API
	MailAPIBaseURL string
	MailAPIKey     string

	// Direct SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string

	// Secret for signing unsubscribe links
	UnsubscribeSecret string

	// Accepted bake-date layouts, in trial order
	BakeDateFormats []string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	// Best effort — running without a .env file is normal in production.
	_ = godotenv.Load()

	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "8080"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: envOrDefault("APP_BASE_URL", "http://localhost:8080"),

		RowStoreDriver:  envOrDefault("ROWSTORE_DRIVER", "memory"),
		RowStoreTimeout: envDurationOrDefault("ROWSTORE_TIMEOUT", 10*time.Second),

		SheetID:           os.Getenv("GOOGLE_SHEET_ID"),
		GoogleCredentials: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "bakehouse"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "bakehouse"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MailChannel: os.Getenv("MAIL_CHANNEL"),
		MailFrom:    envOrDefault("MAIL_FROM", "orders@bakehouse.local"),

		MailAPIBaseURL: envOrDefault("MAIL_API_BASE_URL", "https://api.resend.com"),
		MailAPIKey:     os.Getenv("MAIL_API_KEY"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envOrDefault("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		UnsubscribeSecret: envOrDefault("UNSUBSCRIBE_SECRET", "changeme"),

		BakeDateFormats: DefaultBakeDateFormats,
	}

	if cfg.Env == "production" {
		if cfg.UnsubscribeSecret == "changeme" {
			return nil, fmt.Errorf("UNSUBSCRIBE_SECRET must be set in production")
		}
		if cfg.RowStoreDriver == "postgres" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.RowStoreDriver == "memory" {
			return nil, fmt.Errorf("ROWSTORE_DRIVER=memory stores nothing durably and cannot be used in production")
		}
	}

	switch cfg.RowStoreDriver {
	case "sheets", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown ROWSTORE_DRIVER %q", cfg.RowStoreDriver)
	}

	if cfg.RowStoreDriver == "sheets" && (cfg.SheetID == "" || cfg.GoogleCredentials == "") {
		return nil, fmt.Errorf("ROWSTORE_DRIVER=sheets requires GOOGLE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDurationOrDefault reads a duration environment variable. Plain integers
// are treated as seconds; otherwise time.ParseDuration syntax applies.
func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
