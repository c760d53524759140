package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pstrings "quotedesk/pkg/platform/strings"
)

const (
	DefaultAddr          = ":8080"
	DefaultEmailEndpoint = "https://api.sendgrid.com/v3/mail/send"
	DefaultFromAddress   = "noreply@ocr-dashboard.com"
	DefaultAuditTopic    = "quotedesk.audit"
	DefaultFetchMaxBytes = 10 << 20
	DefaultMaxBodyBytes  = 64 << 20
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string
	Environment  string
	LogLevel     string
	MaxBodyBytes int64

	Database DatabaseConfig
	Redis    RedisConfig
	Audit    AuditConfig
	Email    EmailConfig
	Fetch    FetchConfig
	Portal   PortalConfig
}

// DatabaseConfig configures the PostgreSQL request log. An empty URL selects the in-memory log.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the portal issue store. An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures where audit events go. No brokers means events stay in memory.
type AuditConfig struct {
	Brokers []string
	Topic   string
}

// EmailConfig configures the outbound email transport. An empty APIKey means dry send.
type EmailConfig struct {
	APIKey      string
	Endpoint    string
	FromAddress string
	FromName    string
	Timeout     time.Duration
}

// FetchConfig bounds quotation document downloads.
type FetchConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// PortalConfig holds the key used to seal portal passwords at rest.
type PortalConfig struct {
	SecretKey string
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:         getEnv("QUOTEDESK_ADDR", DefaultAddr),
		Environment:  getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MaxBodyBytes: DefaultMaxBodyBytes,
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Audit: AuditConfig{
			Brokers: pstrings.DedupeAndTrim(strings.Split(os.Getenv("KAFKA_BROKERS"), ",")),
			Topic:   getEnv("AUDIT_TOPIC", DefaultAuditTopic),
		},
		Email: EmailConfig{
			APIKey:      os.Getenv("SENDGRID_API_KEY"),
			Endpoint:    getEnv("EMAIL_ENDPOINT", DefaultEmailEndpoint),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", DefaultFromAddress),
			FromName:    os.Getenv("EMAIL_FROM_NAME"),
		},
		Portal: PortalConfig{
			SecretKey: os.Getenv("PORTAL_SECRET_KEY"),
		},
	}

	var err error
	if cfg.Email.Timeout, err = getDuration("EMAIL_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Fetch.Timeout, err = getDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Fetch.MaxBytes, err = getInt64("FETCH_MAX_BYTES", DefaultFetchMaxBytes); err != nil {
		return Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Server) Validate() error {
	if c.Portal.SecretKey != "" && len(c.Portal.SecretKey) != 32 {
		return fmt.Errorf("PORTAL_SECRET_KEY must be exactly 32 bytes")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("FETCH_MAX_BYTES must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c Server) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
