// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"arena/internal/config"
)

// Option adjusts the generated test configuration.
type Option func(*config.Config)

// WithRuntimeURL points the runtime endpoint at a test server.
func WithRuntimeURL(url string) Option {
	return func(cfg *config.Config) {
		cfg.Runtime.BaseURL = url
	}
}

// WithSeed overrides the simulation seed.
func WithSeed(seed uint64) Option {
	return func(cfg *config.Config) {
		cfg.Simulation.Seed = seed
	}
}

// WithTickRate overrides the tick rate.
func WithTickRate(rate float64) Option {
	return func(cfg *config.Config) {
		cfg.Simulation.TickRate = rate
	}
}

// NewConfig returns a validated configuration rooted in per-test temp
// directories, with a fast tick rate suitable for tests.
func NewConfig(t testing.TB, opts ...Option) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "data", "arenad.sock")
	cfg.Runtime.RequestTimeoutSeconds = 5
	cfg.Runtime.HealthIntervalSeconds = 1
	cfg.Simulation.TickRate = 50
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return &cfg
}
