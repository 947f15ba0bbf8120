// Package config parses environment-driven configuration structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using its `env`
// tags. Defaults come from `envDefault` tags, so a zero environment still
// yields a runnable configuration.
//
// Example:
//
//	type Config struct {
//	    Port       int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    CatalogURL string   `env:"CATALOG_URL" envDefault:"http://localhost:8000"`
//	    Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
