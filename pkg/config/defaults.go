package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/stats"
)

// Default values for configuration.
const (
	DefaultLogLevel       = "info"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvMediaPlaceholder = "CHATSTAT_MEDIA_PLACEHOLDER"
	EnvDateOrder        = "CHATSTAT_DATE_ORDER"
	EnvTimezone         = "CHATSTAT_TIMEZONE"
	EnvTopUsers         = "CHATSTAT_TOP_USERS"
	EnvLogLevel         = "CHATSTAT_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MediaPlaceholder: stats.DefaultMediaPlaceholder,
		DateOrder:        parser.DateOrderAuto,
		TopUsers:         stats.DefaultTopUsers,
		LogLevel:         DefaultLogLevel,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvMediaPlaceholder); v != "" {
		c.MediaPlaceholder = v
	}
	if v := os.Getenv(EnvDateOrder); v != "" {
		c.DateOrder = parser.DateOrder(v)
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvTopUsers); v != "" {
		// Non-numeric values are ignored
		if n, err := strconv.Atoi(v); err == nil {
			c.TopUsers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}
