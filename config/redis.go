package config

import "time"

// RedisConfig contains Redis configuration for the session store and the
// board cache, which share a single client.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains board cache configuration.
type CacheConfig struct {
	// BoardTTL is how long a session's trip board survives between requests.
	// The board is display state; expiry only forces a fresh list fetch.
	BoardTTL time.Duration `env:"CACHE_BOARD_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.BoardTTL <= 0 {
		c.BoardTTL = 30 * time.Minute
	}
}
