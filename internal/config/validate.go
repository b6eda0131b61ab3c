// Pupscout - Random Dog Picker with Breed Ban Lists
// Copyright 2026 Pupscout Contributors
// SPDX-License-Identifier: MIT
// https://github.com/pupscout/pupscout

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for structural and cross-field
// consistency. It is called by Load after all layers are merged.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid config field %s: failed %q constraint", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	// Duration fields cannot express "min" via struct tags without
	// losing the time.Duration type, so check them by hand.
	if c.Fetch.RequestTimeout <= 0 {
		return fmt.Errorf("fetch.request_timeout must be positive, got %s", c.Fetch.RequestTimeout)
	}
	if c.Fetch.RetryDelay < 0 {
		return fmt.Errorf("fetch.retry_delay must not be negative, got %s", c.Fetch.RetryDelay)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.RateLimitWindow < time.Second {
		return fmt.Errorf("server.rate_limit_window must be at least 1s, got %s", c.Server.RateLimitWindow)
	}

	// A per-call timeout longer than the server's write timeout would
	// make every slow upstream call surface as a blank client error.
	if c.Fetch.RequestTimeout >= c.Server.Timeout {
		return fmt.Errorf("fetch.request_timeout (%s) must be shorter than server.timeout (%s)",
			c.Fetch.RequestTimeout, c.Server.Timeout)
	}

	return nil
}
