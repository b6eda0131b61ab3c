// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

// Package config loads and validates application configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Source  SourceConfig  `koanf:"source"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// SourceConfig configures the upstream dog image API.
type SourceConfig struct {
	// BaseURL is the API root.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// APIKey is the header-carried access credential. Optional: when
	// empty, requests go out unauthenticated and the upstream applies
	// its anonymous quota.
	APIKey string `koanf:"api_key"`

	// RequireBreeds asks the upstream to only return images carrying
	// breed metadata.
	RequireBreeds bool `koanf:"require_breeds"`

	// MimeTypes restricts results by asset format.
	MimeTypes []string `koanf:"mime_types"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// FetchConfig configures the retrieval loop.
type FetchConfig struct {
	// BatchSize is how many candidates each primary request asks for.
	BatchSize int `koanf:"batch_size" validate:"min=1,max=25"`

	// MaxAttempts is the primary-call budget per pick.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1,max=50"`

	// RequestTimeout bounds each individual upstream call.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RetryDelay is the constant delay between attempts.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// StrictBreeds discards candidates without breed metadata instead
	// of keeping them for enrichment and the degraded fallback.
	StrictBreeds bool `koanf:"strict_breeds"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:        "https://api.thedogapi.com/v1",
			APIKey:         "",
			RequireBreeds:  true,
			MimeTypes:      []string{"jpg", "png"},
			BreakerEnabled: true,
		},
		Fetch: FetchConfig{
			BatchSize:      5,
			MaxAttempts:    8,
			RequestTimeout: 8 * time.Second,
			RetryDelay:     300 * time.Millisecond,
			StrictBreeds:   false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8742,
			Timeout:         30 * time.Second,
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
