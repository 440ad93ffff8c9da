package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and role-claim configuration
//   - redis.go: Session store and board cache configuration
//   - http.go: HTTP server configuration
//   - tripsapi.go: Remote viagens API configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, relaxed cookies).
	// Set DEV=true or GO_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Redis configuration (sessions and board cache share one client)
	Redis RedisConfig `envPrefix:"REDIS_"`
	Cache CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Remote viagens API configuration
	TripsAPI TripsAPIConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.TripsAPI.Sanitize()
	c.Cache.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks the DEV, GO_ENV, and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common when frontend tooling shares the env).
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	for _, key := range []string{"GO_ENV", "NODE_ENV"} {
		v := strings.ToLower(os.Getenv(key))
		if v == "development" || v == "dev" {
			c.IsDev = true
			return
		}
	}
}
