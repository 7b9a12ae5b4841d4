package agent

import (
	"errors"
	"testing"

	"arena/internal/ipc"
)

func TestNewRequiresID(t *testing.T) {
	if _, err := New("  ", nil); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	a, err := New("agent_1", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a.Remember("target", "tree_4")
	value, ok := a.Recall("target")
	if !ok || value != "tree_4" {
		t.Fatalf("Recall returned %v, %v", value, ok)
	}

	snapshot := a.MemorySnapshot()
	snapshot["target"] = "mutated"
	if value, _ := a.Recall("target"); value != "tree_4" {
		t.Fatal("snapshot mutation leaked into agent memory")
	}

	if !a.Forget("target") {
		t.Fatal("expected Forget to report removal")
	}
	if a.Forget("target") {
		t.Fatal("expected second Forget to report missing")
	}
}

func TestDecideUsesBehavior(t *testing.T) {
	behavior := BehaviorFunc(func(obs Observation) (Decision, bool) {
		if obs.Tick%2 == 0 {
			return Decision{}, false
		}
		return Decision{ToolName: "search", Params: map[string]any{"tick": obs.Tick}}, true
	})
	a, err := New("agent_1", behavior)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := a.Decide(2); ok {
		t.Fatal("expected idle on even tick")
	}
	decision, ok := a.Decide(3)
	if !ok || decision.ToolName != "search" {
		t.Fatalf("unexpected decision %+v ok=%v", decision, ok)
	}
}

func TestNilBehaviorIdles(t *testing.T) {
	a, _ := New("agent_1", nil)
	if _, ok := a.Decide(1); ok {
		t.Fatal("agent without behavior must idle")
	}
}

func TestApplyResultUpdatesHistoryAndMemory(t *testing.T) {
	a, _ := New("agent_1", nil)
	a.RecordSubmission(7, "search", "corr-1")

	applied := a.ApplyResult(ipc.Result{
		CorrelationID: "corr-1",
		Request:       ipc.Request{ToolName: "search", AgentID: "agent_1", Tick: 7},
		Response: &ipc.Response{
			ToolName: "search",
			AgentID:  "agent_1",
			Tick:     7,
			Payload:  map[string]any{"found": true},
		},
	})
	if !applied {
		t.Fatal("expected result to match pending action")
	}

	history := a.History()
	if len(history) != 1 || !history[0].Completed || history[0].Failed {
		t.Fatalf("unexpected history %+v", history)
	}
	lastResult, ok := a.Recall("last_result")
	if !ok {
		t.Fatal("expected last_result in memory")
	}
	if payload := lastResult.(map[string]any); payload["found"] != true {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestApplyResultRecordsFailure(t *testing.T) {
	a, _ := New("agent_1", nil)
	a.RecordSubmission(7, "search", "corr-1")

	a.ApplyResult(ipc.Result{
		CorrelationID: "corr-1",
		Request:       ipc.Request{ToolName: "search"},
		Err:           errors.New("connection refused"),
	})

	history := a.History()
	if !history[0].Failed || history[0].Error == "" {
		t.Fatalf("expected failed action, got %+v", history[0])
	}
	if _, ok := a.Recall("last_result"); ok {
		t.Fatal("failed result must not populate last_result")
	}
}

func TestApplyResultIgnoresUnknownCorrelation(t *testing.T) {
	a, _ := New("agent_1", nil)
	if a.ApplyResult(ipc.Result{CorrelationID: "missing"}) {
		t.Fatal("expected unmatched result to be ignored")
	}
}

func TestRegistryOrderingAndDuplicates(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{"charlie", "alpha", "bravo"} {
		a, _ := New(id, nil)
		if err := registry.Register(a); err != nil {
			t.Fatalf("Register(%q): %v", id, err)
		}
	}

	dup, _ := New("alpha", nil)
	if err := registry.Register(dup); !errors.Is(err, ErrDuplicateAgent) {
		t.Fatalf("expected ErrDuplicateAgent, got %v", err)
	}

	list := registry.List()
	want := []string{"alpha", "bravo", "charlie"}
	for i, id := range want {
		if list[i].ID() != id {
			t.Fatalf("expected order %v, got %v at %d", want, list[i].ID(), i)
		}
	}

	if !registry.Unregister("bravo") {
		t.Fatal("expected Unregister to succeed")
	}
	if registry.Len() != 2 {
		t.Fatalf("expected 2 agents, got %d", registry.Len())
	}
}
