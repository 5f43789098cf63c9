// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetPreviewOriginPattern() string
}

// TurnstileConfig provides settings for the Cloudflare Turnstile verifier.
type TurnstileConfig interface {
	GetTurnstileSecretKey() string
	GetTurnstileTimeout() time.Duration
}

// SheetsConfig provides settings for the spreadsheet webhook sync.
type SheetsConfig interface {
	GetSheetsWebhookURL() string
	IsSheetsSyncEnabled() bool
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RateLimitConfig provides the persisted submission-window limits.
type RateLimitConfig interface {
	GetEmailWindowMax() int
	GetEmailWindow() time.Duration
	GetIPWindowMax() int
	GetIPWindow() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSOrigins          []string
	PreviewOriginPattern string
	TurnstileSecretKey   string
	TurnstileTimeout     time.Duration
	SheetsWebhookURL     string
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	EmailWindowMax       int
	EmailWindow          time.Duration
	IPWindowMax          int
	IPWindow             time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetPreviewOriginPattern() string { return c.PreviewOriginPattern }

// TurnstileConfig implementation
func (c *Config) GetTurnstileSecretKey() string      { return c.TurnstileSecretKey }
func (c *Config) GetTurnstileTimeout() time.Duration { return c.TurnstileTimeout }

// SheetsConfig implementation
func (c *Config) GetSheetsWebhookURL() string { return c.SheetsWebhookURL }
func (c *Config) IsSheetsSyncEnabled() bool   { return c.SheetsWebhookURL != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }

// RateLimitConfig implementation
func (c *Config) GetEmailWindowMax() int        { return c.EmailWindowMax }
func (c *Config) GetEmailWindow() time.Duration { return c.EmailWindow }
func (c *Config) GetIPWindowMax() int           { return c.IPWindowMax }
func (c *Config) GetIPWindow() time.Duration    { return c.IPWindow }

// defaultCORSOrigins covers the production domains, the hosted preview
// project and the local dev servers. Overridable through CORS_ORIGINS.
const defaultCORSOrigins = "https://padmalayagroup.in,https://www.padmalayagroup.in," +
	"https://padmalaya.vercel.app," +
	"https://padmalaya-git-main-toolscosvalt.vercel.app,https://padmalaya-toolscosvalt.vercel.app," +
	"http://localhost:5173,http://localhost:5174,http://localhost:5175,http://localhost:5176," +
	"http://127.0.0.1:5173,http://127.0.0.1:5174,http://127.0.0.1:5175,http://127.0.0.1:5176"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
		PreviewOriginPattern: getEnv("PREVIEW_ORIGIN_PATTERN", `^https://padmalaya-[a-z0-9-]+\.vercel\.app$`),
		TurnstileSecretKey:   getEnv("TURNSTILE_SECRET_KEY", ""),
		TurnstileTimeout:     mustDuration(getEnv("TURNSTILE_TIMEOUT", "10s")),
		SheetsWebhookURL:     getEnv("SHEETS_WEBHOOK_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		EmailWindowMax:       mustInt(getEnv("RATE_LIMIT_EMAIL_MAX", "3")),
		EmailWindow:          mustDuration(getEnv("RATE_LIMIT_EMAIL_WINDOW", "24h")),
		IPWindowMax:          mustInt(getEnv("RATE_LIMIT_IP_MAX", "5")),
		IPWindow:             mustDuration(getEnv("RATE_LIMIT_IP_WINDOW", "1h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	if cfg.EmailWindowMax < 1 || cfg.IPWindowMax < 1 {
		return nil, fmt.Errorf("rate limit maximums must be positive")
	}
	if cfg.EmailWindow <= 0 || cfg.IPWindow <= 0 {
		return nil, fmt.Errorf("rate limit windows must be positive durations")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
