package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"arena/internal/daemon"
	"arena/internal/testsupport"
)

func newControlPair(t *testing.T) *Client {
	t.Helper()

	runtime := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	t.Cleanup(runtime.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithRuntimeURL(runtime.URL))
	d, err := daemon.New(cfg, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	server, err := NewServer(context.Background(), cfg.Paths.SocketPath, d, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := Dial(cfg.Paths.SocketPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPingAndStatus(t *testing.T) {
	client := newControlPair(t)

	ping, err := client.Ping()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if ping.SessionID == "" || ping.PID == 0 {
		t.Fatalf("unexpected ping %+v", ping)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Started {
		t.Fatal("expected started daemon")
	}
	if status.SimRunning {
		t.Fatal("tick loop should not start on its own")
	}
}

func TestAgentAndToolRoundTrip(t *testing.T) {
	client := newControlPair(t)

	if err := client.AgentAdd("agent_1"); err != nil {
		t.Fatalf("AgentAdd: %v", err)
	}
	if err := client.AgentAdd("agent_1"); err == nil {
		t.Fatal("expected duplicate agent error over RPC")
	}

	if err := client.ToolRegister(ToolInfo{
		Name:        "gather_wood",
		Description: "Collect wood",
		Params:      []ToolParam{{Name: "amount", Type: "integer", Required: true}},
	}); err != nil {
		t.Fatalf("ToolRegister: %v", err)
	}

	toolsResp, err := client.ToolList()
	if err != nil {
		t.Fatalf("ToolList: %v", err)
	}
	if len(toolsResp.Tools) != 1 || toolsResp.Tools[0].DisplayName != "Gather Wood" {
		t.Fatalf("unexpected tools %+v", toolsResp.Tools)
	}

	call, err := client.ToolCall("agent_1", "gather_wood", map[string]any{"amount": 3})
	if err != nil {
		t.Fatalf("ToolCall: %v", err)
	}
	if call.CorrelationID == "" {
		t.Fatal("expected correlation id from tool call")
	}

	if _, err := client.ToolCall("agent_1", "gather_wood", nil); err == nil ||
		!strings.Contains(err.Error(), "missing required params") {
		t.Fatalf("expected missing params error, got %v", err)
	}

	agentsResp, err := client.AgentList()
	if err != nil {
		t.Fatalf("AgentList: %v", err)
	}
	if len(agentsResp.Agents) != 1 || agentsResp.Agents[0].ID != "agent_1" {
		t.Fatalf("unexpected agents %+v", agentsResp.Agents)
	}
}

func TestSimControl(t *testing.T) {
	client := newControlPair(t)

	step, err := client.SimStep(3)
	if err != nil {
		t.Fatalf("SimStep: %v", err)
	}
	if step.Tick != 3 {
		t.Fatalf("expected tick 3, got %d", step.Tick)
	}

	start, err := client.SimStart()
	if err != nil {
		t.Fatalf("SimStart: %v", err)
	}
	if !start.Started {
		t.Fatalf("expected started, got %+v", start)
	}

	again, err := client.SimStart()
	if err != nil {
		t.Fatalf("SimStart again: %v", err)
	}
	if again.Started {
		t.Fatal("second start must report failure, not error")
	}

	stop, err := client.SimStop()
	if err != nil {
		t.Fatalf("SimStop: %v", err)
	}
	if !stop.Stopped {
		t.Fatalf("expected stopped, got %+v", stop)
	}

	reset, err := client.SimReset()
	if err != nil {
		t.Fatalf("SimReset: %v", err)
	}
	if reset.Tick != 0 {
		t.Fatalf("expected tick 0 after reset, got %d", reset.Tick)
	}
}

func TestEventsOverRPC(t *testing.T) {
	client := newControlPair(t)

	if err := client.AgentAdd("agent_1"); err != nil {
		t.Fatalf("AgentAdd: %v", err)
	}

	recent, err := client.EventsRecent(10)
	if err != nil {
		t.Fatalf("EventsRecent: %v", err)
	}
	if len(recent.Events) == 0 {
		t.Fatal("expected at least the agent_added event")
	}

	stats, err := client.EventsStats()
	if err != nil {
		t.Fatalf("EventsStats: %v", err)
	}
	if stats.Total == 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	exportPath := filepath.Join(t.TempDir(), "recording.json")
	exported, err := client.EventsExport(exportPath)
	if err != nil {
		t.Fatalf("EventsExport: %v", err)
	}
	if exported.Exported != stats.Total {
		t.Fatalf("expected %d exported, got %d", stats.Total, exported.Exported)
	}

	cleared, err := client.EventsClear()
	if err != nil {
		t.Fatalf("EventsClear: %v", err)
	}
	if cleared.Removed != stats.Total {
		t.Fatalf("expected %d removed, got %d", stats.Total, cleared.Removed)
	}

	record, err := client.RecordSet(false)
	if err != nil {
		t.Fatalf("RecordSet: %v", err)
	}
	if record.Recording {
		t.Fatal("expected recording disabled")
	}
}

func TestEventsImportRestoresRecording(t *testing.T) {
	client := newControlPair(t)

	if err := client.AgentAdd("agent_1"); err != nil {
		t.Fatalf("AgentAdd: %v", err)
	}

	stats, err := client.EventsStats()
	if err != nil {
		t.Fatalf("EventsStats: %v", err)
	}
	if stats.Total == 0 {
		t.Fatal("expected recorded events before export")
	}

	exportPath := filepath.Join(t.TempDir(), "recording.json")
	if _, err := client.EventsExport(exportPath); err != nil {
		t.Fatalf("EventsExport: %v", err)
	}
	cleared, err := client.EventsClear()
	if err != nil {
		t.Fatalf("EventsClear: %v", err)
	}
	if cleared.Removed != stats.Total {
		t.Fatalf("expected %d removed, got %d", stats.Total, cleared.Removed)
	}

	imported, err := client.EventsImport(exportPath)
	if err != nil {
		t.Fatalf("EventsImport: %v", err)
	}
	if int64(imported.Imported) != stats.Total {
		t.Fatalf("expected %d imported, got %d", stats.Total, imported.Imported)
	}
	restored, err := client.EventsStats()
	if err != nil {
		t.Fatalf("EventsStats after import: %v", err)
	}
	if restored.Total != stats.Total {
		t.Fatalf("expected %d events after import, got %d", stats.Total, restored.Total)
	}

	if _, err := client.EventsImport(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error importing a missing file")
	}
}

func TestEventsRangeOverRPC(t *testing.T) {
	client := newControlPair(t)

	if err := client.AgentAdd("agent_1"); err != nil {
		t.Fatalf("AgentAdd: %v", err)
	}
	if _, err := client.SimStep(2); err != nil {
		t.Fatalf("SimStep: %v", err)
	}
	if err := client.AgentAdd("agent_2"); err != nil {
		t.Fatalf("AgentAdd: %v", err)
	}

	ranged, err := client.EventsRange(1, 5)
	if err != nil {
		t.Fatalf("EventsRange: %v", err)
	}
	if len(ranged.Events) != 1 {
		t.Fatalf("expected one event in range, got %+v", ranged.Events)
	}
	if ranged.Events[0].Tick != 2 || ranged.Events[0].AgentID != "agent_2" {
		t.Fatalf("unexpected ranged event %+v", ranged.Events[0])
	}

	if _, err := client.EventsRange(5, 1); err == nil {
		t.Fatal("expected inverted range error")
	}
}
