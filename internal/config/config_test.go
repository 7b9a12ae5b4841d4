package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false for missing file")
	}
	if cfg.Runtime.BaseURL != defaultRuntimeBaseURL {
		t.Fatalf("expected default base URL, got %q", cfg.Runtime.BaseURL)
	}
	if cfg.Simulation.TickRate != defaultTickRate {
		t.Fatalf("expected default tick rate, got %v", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Seed != defaultSeed {
		t.Fatalf("expected default seed, got %d", cfg.Simulation.Seed)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[runtime]
base_url = "http://localhost:9999/"
request_timeout_seconds = 5

[simulation]
tick_rate = 2.5
seed = 42
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Runtime.BaseURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Runtime.BaseURL)
	}
	if cfg.Runtime.RequestTimeoutSeconds != 5 {
		t.Fatalf("expected request timeout 5, got %d", cfg.Runtime.RequestTimeoutSeconds)
	}
	if cfg.Simulation.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
	if !filepath.IsAbs(cfg.Paths.SocketPath) {
		t.Fatalf("expected socket path to be absolute, got %q", cfg.Paths.SocketPath)
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[runtime]
base_url = "ftp://example.com"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for ftp scheme")
	}
	if !strings.Contains(err.Error(), "runtime.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestRuntimeURLFromEnvironment(t *testing.T) {
	t.Setenv("ARENA_RUNTIME_URL", "http://runtime.internal:8080")

	cfg := Default()
	cfg.Runtime.BaseURL = ""
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if cfg.Runtime.BaseURL != "http://runtime.internal:8080" {
		t.Fatalf("expected env fallback, got %q", cfg.Runtime.BaseURL)
	}
}

func TestNormalizeRepairsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TickRate = 0
	cfg.Simulation.Seed = 0
	cfg.Runtime.RequestTimeoutSeconds = -1
	cfg.Logging.Format = "yaml"

	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if cfg.Simulation.TickRate != defaultTickRate {
		t.Fatalf("expected tick rate repaired, got %v", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Seed != defaultSeed {
		t.Fatalf("expected seed repaired, got %d", cfg.Simulation.Seed)
	}
	if cfg.Runtime.RequestTimeoutSeconds != defaultRequestTimeoutSeconds {
		t.Fatalf("expected timeout repaired, got %d", cfg.Runtime.RequestTimeoutSeconds)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected unknown format coerced to console, got %q", cfg.Logging.Format)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[runtime]") {
		t.Fatal("expected sample to contain [runtime] section")
	}
}
