package config

import "strings"

// ObservabilityConfig groups configuration that controls metrics exposure.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls the Prometheus metrics endpoint.
type ObservabilityMetricsConfig struct {
	Enabled bool `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`

	// Namespace prefixes all metric names.
	Namespace string `env:"OBSERVABILITY_METRICS_NAMESPACE" envDefault:"viagens_ui"`

	// Path is where the scrape endpoint is mounted.
	Path string `env:"OBSERVABILITY_METRICS_PATH" envDefault:"/metrics"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = "viagens_ui"
	}
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" || !strings.HasPrefix(c.Path, "/") {
		c.Path = "/metrics"
	}
}
