package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Store
	StoreDriver string
	SQLitePath  string
	DatabaseURL string

	// Server
	Host        string
	Port        string
	CORSOrigins []string
	Env         string

	// Rate limiting
	RateLimit RateLimitConfig

	// Reminder worker
	Reminder ReminderConfig

	// BadgeDeduplicate skips awards whose category and name were already earned
	BadgeDeduplicate bool
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// ReminderConfig holds reminder worker scheduling
type ReminderConfig struct {
	Interval     time.Duration
	InitialDelay time.Duration
	RetryDelay   time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		SQLitePath:  getEnv("SQLITE_PATH", "coinspot.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:         getEnv("ENV", "development"),
		RateLimit: RateLimitConfig{
			PerMinute: p.int("RATE_LIMIT_PER_MINUTE", 300),
			Burst:     p.int("RATE_LIMIT_BURST", 30),
		},
		Reminder: ReminderConfig{
			Interval:     p.duration("REMINDER_INTERVAL", 24*time.Hour),
			InitialDelay: p.duration("REMINDER_INITIAL_DELAY", time.Hour),
			RetryDelay:   p.duration("REMINDER_RETRY_DELAY", 15*time.Minute),
		},
		BadgeDeduplicate: p.bool("BADGE_DEDUPLICATE", false),
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreSQLite, StorePostgres, c.StoreDriver)
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be positive")
	}
	if c.Reminder.InitialDelay < 0 {
		return fmt.Errorf("REMINDER_INITIAL_DELAY must not be negative")
	}
	if c.Reminder.RetryDelay <= 0 {
		return fmt.Errorf("REMINDER_RETRY_DELAY must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parser reads typed values and keeps the first error
type parser struct {
	err error
}

func (p *parser) int(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(fmt.Errorf("%s must be an integer: %w", key, err))
		return defaultValue
	}
	return v
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(fmt.Errorf("%s must be a duration: %w", key, err))
		return defaultValue
	}
	return v
}

func (p *parser) bool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(fmt.Errorf("%s must be a boolean: %w", key, err))
		return defaultValue
	}
	return v
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
