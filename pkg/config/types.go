// Package config provides configuration loading and validation for chatstat.
package config

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// MediaPlaceholder is the text the exporting app writes in place of
	// omitted media. It depends on the exporting phone's language.
	MediaPlaceholder string `yaml:"media_placeholder"`

	// DateOrder is how numeric dates are read: auto, dmy or mdy.
	DateOrder parser.DateOrder `yaml:"date_order"`

	// Timezone is the IANA zone the export's local times belong to.
	Timezone string `yaml:"timezone,omitempty"`

	// TopUsers is how many participants the busiest-users ranking lists.
	TopUsers int `yaml:"top_users"`

	// StrictURLs only counts links with an explicit scheme.
	StrictURLs bool `yaml:"strict_urls,omitempty"`

	// LogLevel is the minimum level written to stderr.
	LogLevel string `yaml:"log_level"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// Populated during validation
	location *time.Location
	logLevel zerolog.Level
}

// Location returns the parsed Timezone (UTC when unset).
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Level returns the parsed LogLevel.
func (c *Config) Level() zerolog.Level {
	return c.logLevel
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnMessages fires only when the report contains at least
	// one message (default).
	WebhookTriggerOnMessages WebhookTrigger = "on_messages"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_messages" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
