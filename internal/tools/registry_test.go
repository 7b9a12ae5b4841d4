package tools

import (
	"context"
	"errors"
	"testing"

	"arena/internal/ipc"
)

type recordingTransport struct {
	requests []ipc.Request
}

func (r *recordingTransport) Execute(_ context.Context, req ipc.Request) (map[string]any, error) {
	r.requests = append(r.requests, req)
	return map[string]any{"ok": true}, nil
}

func (r *recordingTransport) Health(context.Context) error { return nil }

func newTestRegistry(t *testing.T) (*Registry, *ipc.Channel) {
	t.Helper()
	channel := ipc.NewChannel(&recordingTransport{})
	t.Cleanup(channel.Close)
	return NewRegistry(channel, nil), channel
}

func TestRegisterAndLookup(t *testing.T) {
	registry, _ := newTestRegistry(t)

	schema := Schema{
		Name:        "gather_wood",
		Description: "Collect wood from the nearest tree",
		Params: map[string]Param{
			"amount": {Type: "integer", Required: true},
		},
	}
	if err := registry.Register(schema); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := registry.Register(schema); !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}

	got, ok := registry.Schema("gather_wood")
	if !ok {
		t.Fatal("expected schema to be registered")
	}
	if got.DisplayName() != "Gather Wood" {
		t.Fatalf("unexpected display name %q", got.DisplayName())
	}
}

func TestNamesAreSorted(t *testing.T) {
	registry, _ := newTestRegistry(t)
	for _, name := range []string{"move", "attack", "search"} {
		if err := registry.Register(Schema{Name: name}); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	names := registry.Names()
	want := []string{"attack", "move", "search"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected names %v, got %v", want, names)
		}
	}
}

func TestExecuteRejectsUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)
	if _, err := registry.Execute("agent_1", 1, "nope", nil); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestExecuteChecksRequiredParams(t *testing.T) {
	registry, _ := newTestRegistry(t)
	if err := registry.Register(Schema{
		Name: "move",
		Params: map[string]Param{
			"dx": {Type: "integer", Required: true},
			"dy": {Type: "integer", Required: false},
		},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := registry.Execute("agent_1", 1, "move", map[string]any{"dy": 2}); !errors.Is(err, ErrMissingParams) {
		t.Fatalf("expected ErrMissingParams, got %v", err)
	}
	if _, err := registry.Execute("agent_1", 1, "move", map[string]any{"dx": 1}); err != nil {
		t.Fatalf("expected valid invocation, got %v", err)
	}
}

func TestExecuteSubmitsWithContext(t *testing.T) {
	transport := &recordingTransport{}
	channel := ipc.NewChannel(transport)
	defer channel.Close()
	registry := NewRegistry(channel, nil)

	if err := registry.Register(Schema{Name: "search"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ack, err := registry.Execute("agent_9", 33, "search", map[string]any{"q": "x"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ack.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}

	res := <-channel.Results()
	if res.Request.AgentID != "agent_9" || res.Request.Tick != 33 || res.Request.ToolName != "search" {
		t.Fatalf("submission lost context: %+v", res.Request)
	}
}

func TestUnregister(t *testing.T) {
	registry, _ := newTestRegistry(t)
	if err := registry.Register(Schema{Name: "move"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !registry.Unregister("move") {
		t.Fatal("expected Unregister to report removal")
	}
	if registry.Unregister("move") {
		t.Fatal("expected second Unregister to report missing")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", registry.Len())
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := (Schema{}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := (Schema{Name: "x", Params: map[string]Param{"p": {}}}).Validate(); err == nil {
		t.Fatal("expected error for param without type")
	}
}
