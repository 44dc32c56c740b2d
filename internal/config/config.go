// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	ApplicationID string // expected skill application id; empty accepts any
	CatalogPath   string // TOML show catalog; empty uses the embedded one
	Store         StoreConfig
	Feed          FeedConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Console       ConsoleConfig
	Timeout       TimeoutConfig
}

// StoreConfig selects the attribute store backend.
type StoreConfig struct {
	Driver        string // sqlite, redis or memory
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FeedConfig controls podcast feed fetching.
type FeedConfig struct {
	CacheTTL        time.Duration
	Timeout         time.Duration
	RefreshInterval time.Duration
}

// AuthConfig points at the account service used for account linking.
type AuthConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig limits skill requests per client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ConsoleConfig controls the development console.
type ConsoleConfig struct {
	Enabled     bool
	CORSOrigins []string
}

// TimeoutConfig holds server timeouts.
type TimeoutConfig struct {
	HealthCheck time.Duration
	Shutdown    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		ApplicationID: getEnv("SKILL_APPLICATION_ID", ""),
		CatalogPath:   getEnv("CATALOG_PATH", ""),
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			DBPath:        getEnv("DB_PATH", "./data/skill.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Feed: FeedConfig{
			CacheTTL:        getEnvDuration("FEED_CACHE_TTL", 15*time.Minute),
			Timeout:         getEnvDuration("FEED_TIMEOUT", 10*time.Second),
			RefreshInterval: getEnvDuration("FEED_REFRESH_INTERVAL", 10*time.Minute),
		},
		Auth: AuthConfig{
			BaseURL: getEnv("AUTH_BASE_URL", ""),
			Timeout: getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Console: ConsoleConfig{
			Enabled:     getEnvBool("CONSOLE_ENABLED", false),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Timeout: TimeoutConfig{
			HealthCheck: 5 * time.Second,
			Shutdown:    10 * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite, redis or memory, got %q", c.Store.Driver)
	}
	if c.Feed.CacheTTL <= 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be > 0")
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be > 0")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
