// Package config loads the storefront configuration from the environment.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/shopverse/storefront/pkg/config"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Catalog service
	CatalogURL string `env:"CATALOG_URL" envDefault:"http://localhost:8000"`

	// Catalog snapshot refresh interval in seconds.
	SnapshotRefreshSeconds int `env:"SNAPSHOT_REFRESH_SECONDS" envDefault:"60"`

	// Window of the recently-purchased aggregate, in days.
	RecentlyPurchasedDays int `env:"RECENTLY_PURCHASED_DAYS" envDefault:"30"`

	// Typeahead debounce window in milliseconds.
	SuggestDebounceMillis int `env:"SUGGEST_DEBOUNCE_MS" envDefault:"200"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session state TTL in hours (default: 30 days, matching how long a
	// browser would keep the equivalent local state around).
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampler  float64 `env:"TRACING_SAMPLER_RATIO" envDefault:"0.1"`

	// Pprof access, comma-separated CIDRs. Empty disables the endpoints.
	PprofCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if c.SnapshotRefreshSeconds < 1 {
		return fmt.Errorf("invalid snapshot refresh interval: %d", c.SnapshotRefreshSeconds)
	}
	return nil
}

// SessionTTL returns the session state TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SnapshotRefreshInterval returns the snapshot refresh interval as a duration.
func (c *Config) SnapshotRefreshInterval() time.Duration {
	return time.Duration(c.SnapshotRefreshSeconds) * time.Second
}

// SuggestDebounce returns the typeahead debounce window as a duration.
func (c *Config) SuggestDebounce() time.Duration {
	return time.Duration(c.SuggestDebounceMillis) * time.Millisecond
}
