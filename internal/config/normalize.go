package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRuntime()
	c.normalizeSimulation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = defaultSocketPath
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRuntime() {
	c.Runtime.BaseURL = strings.TrimSpace(c.Runtime.BaseURL)
	if c.Runtime.BaseURL == "" {
		if value, ok := os.LookupEnv("ARENA_RUNTIME_URL"); ok {
			c.Runtime.BaseURL = strings.TrimSpace(value)
		}
	}
	if c.Runtime.BaseURL == "" {
		c.Runtime.BaseURL = defaultRuntimeBaseURL
	}
	c.Runtime.BaseURL = strings.TrimRight(c.Runtime.BaseURL, "/")
	if c.Runtime.RequestTimeoutSeconds <= 0 {
		c.Runtime.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if c.Runtime.HealthIntervalSeconds <= 0 {
		c.Runtime.HealthIntervalSeconds = defaultHealthIntervalSeconds
	}
}

func (c *Config) normalizeSimulation() {
	if c.Simulation.TickRate <= 0 {
		c.Simulation.TickRate = defaultTickRate
	}
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = defaultSeed
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
