package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.RateLimitMs < 0 {
		return errors.New("resolver.rate_limit_ms must not be negative")
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		return errors.New("resolver.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be text, console, or json (got %q)", c.Logging.Format)
	}
}
