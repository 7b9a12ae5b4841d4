package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"arena/internal/events"
	"arena/internal/testsupport"
	"arena/internal/tools"
)

func newRuntimeServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		case "/tools/execute":
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"echo": req["tool_name"]})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	server := newRuntimeServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithRuntimeURL(server.URL))

	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestStartStopLifecycle(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("second Start should be a no-op, got %v", err)
	}

	status := d.Status()
	if !status.Started {
		t.Fatal("expected started status")
	}
	if !status.Recording {
		t.Fatal("expected recording enabled via record_on_start")
	}
	if status.SessionID == "" {
		t.Fatal("expected a session id")
	}

	d.Stop()
	if d.Status().Started {
		t.Fatal("expected stopped status")
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	server := newRuntimeServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithRuntimeURL(server.URL))

	first, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer first.Close()
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	defer second.Close()
	if err := second.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestToolCallFlowsThroughChannelAndStore(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := d.AddAgent("agent_1"); err != nil {
		t.Fatalf("AddAgent: %v", err)
	}
	if err := d.RegisterTool(tools.Schema{Name: "search"}); err != nil {
		t.Fatalf("RegisterTool: %v", err)
	}

	ack, err := d.CallTool("agent_1", "search", map[string]any{"q": "x"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if ack.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}

	// The result pump applies the outcome asynchronously.
	deadline := time.Now().Add(3 * time.Second)
	for {
		recorded, err := d.RecentEvents(ctx, 10)
		if err != nil {
			t.Fatalf("RecentEvents: %v", err)
		}
		var completed bool
		for _, evt := range recorded {
			if evt.Type == events.TypeToolCompleted {
				completed = true
			}
		}
		if completed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("tool_completed event never recorded; got %+v", recorded)
		}
		time.Sleep(10 * time.Millisecond)
	}

	summaries := d.ListAgents()
	if len(summaries) != 1 || summaries[0].Actions != 1 {
		t.Fatalf("unexpected agent summaries %+v", summaries)
	}
}

func TestExportAndClearEvents(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.AddAgent("agent_1"); err != nil {
		t.Fatalf("AddAgent: %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "recording.json")
	count, err := d.ExportEvents(ctx, exportPath)
	if err != nil {
		t.Fatalf("ExportEvents: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least the agent_added event exported")
	}

	removed, err := d.ClearEvents(ctx)
	if err != nil {
		t.Fatalf("ClearEvents: %v", err)
	}
	if removed != count {
		t.Fatalf("expected %d removed, got %d", count, removed)
	}
}

func TestPreflightFailureBlocksStart(t *testing.T) {
	server := newRuntimeServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithRuntimeURL(server.URL))

	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing", "logs")
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected preflight failure for missing log dir")
	}
}
