package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	socket := ""
	ctx := newCommandContext(&socket, &path)

	cmd := newConfigCommand(ctx)
	cmd.SetArgs([]string{"init"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("sample config is empty")
	}
	if !strings.Contains(out.String(), path) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSamplePathPrefersConfigFlag(t *testing.T) {
	socket := ""
	flagged := "/tmp/arena-flagged.toml"
	path, err := samplePath(newCommandContext(&socket, &flagged))
	if err != nil {
		t.Fatalf("samplePath: %v", err)
	}
	if path != flagged {
		t.Fatalf("expected %q, got %q", flagged, path)
	}

	empty := ""
	path, err = samplePath(newCommandContext(&socket, &empty))
	if err != nil {
		t.Fatalf("samplePath default: %v", err)
	}
	if path == "" {
		t.Fatal("expected a default config path")
	}
}
