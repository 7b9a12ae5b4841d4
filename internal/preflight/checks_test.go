package preflight

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"arena/internal/config"
	"arena/internal/ipc"
)

type healthTransport struct{ err error }

func (h healthTransport) Execute(context.Context, ipc.Request) (map[string]any, error) {
	return nil, errors.New("not used")
}

func (h healthTransport) Health(context.Context) error { return h.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.SocketPath = filepath.Join(dir, "data", "arenad.sock")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func TestRunPassesWithWritableDirectories(t *testing.T) {
	cfg := testConfig(t)
	checks := Run(context.Background(), cfg, healthTransport{})

	if !Ready(checks) {
		t.Fatalf("expected ready, got %+v", checks)
	}
	if _, failed := FirstFailure(checks); failed {
		t.Fatalf("unexpected failure in %+v", checks)
	}
}

func TestRunFlagsMissingDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "does", "not", "exist")

	checks := Run(context.Background(), cfg, healthTransport{})
	if Ready(checks) {
		t.Fatalf("expected failure for missing data dir, got %+v", checks)
	}
	failure, failed := FirstFailure(checks)
	if !failed || failure.Name != "data directory" {
		t.Fatalf("expected data directory failure, got %+v", failure)
	}
}

func TestRuntimeCheckIsAdvisory(t *testing.T) {
	cfg := testConfig(t)
	checks := Run(context.Background(), cfg, healthTransport{err: errors.New("connection refused")})

	if !Ready(checks) {
		t.Fatalf("runtime failure must not block startup, got %+v", checks)
	}
	var runtime Check
	for _, check := range checks {
		if check.Name == "runtime" {
			runtime = check
		}
	}
	if runtime.Ready {
		t.Fatalf("expected runtime check to fail, got %+v", runtime)
	}
}
