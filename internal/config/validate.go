package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRuntime(); err != nil {
		return err
	}
	if err := c.validateSimulation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRuntime() error {
	base := strings.TrimSpace(c.Runtime.BaseURL)
	if base == "" {
		return errors.New("runtime.base_url must be set (or set ARENA_RUNTIME_URL)")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("runtime.base_url is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("runtime.base_url must use http or https, got %q", parsed.Scheme)
	}
	if c.Runtime.RequestTimeoutSeconds <= 0 {
		return errors.New("runtime.request_timeout_seconds must be positive")
	}
	if c.Runtime.HealthIntervalSeconds <= 0 {
		return errors.New("runtime.health_interval_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSimulation() error {
	if c.Simulation.TickRate <= 0 {
		return errors.New("simulation.tick_rate must be positive")
	}
	return nil
}
