package config

import (
	"strings"
	"time"
)

// TripsAPIConfig contains connection settings for the remote viagens API.
type TripsAPIConfig struct {
	// BaseURL is the root of the remote API; trip endpoints live under
	// "{BaseURL}/viagens".
	BaseURL string `env:"VIAGENS_API_URL" envDefault:"http://localhost:8081"`

	// Timeout bounds each request to the remote API.
	Timeout time.Duration `env:"VIAGENS_API_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to remote API configuration values.
func (c *TripsAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}
