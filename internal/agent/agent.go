package agent

import (
	"errors"
	"strings"
	"sync"
	"time"

	"arena/internal/ipc"
)

// Observation is the slice of world state handed to a behavior each tick.
type Observation struct {
	AgentID string
	Tick    uint64
	Memory  map[string]any
}

// Decision is a behavior's request to invoke a tool this tick.
type Decision struct {
	ToolName string
	Params   map[string]any
	Reason   string
}

// Behavior decides what an agent does on a tick. Returning ok=false means
// the agent idles.
type Behavior interface {
	Decide(obs Observation) (Decision, bool)
}

// BehaviorFunc adapts a function to the Behavior interface.
type BehaviorFunc func(Observation) (Decision, bool)

func (f BehaviorFunc) Decide(obs Observation) (Decision, bool) { return f(obs) }

// Action records one tool invocation made on the agent's behalf and, once
// known, its outcome.
type Action struct {
	Tick          uint64
	ToolName      string
	CorrelationID string
	Completed     bool
	Failed        bool
	Error         string
	At            time.Time
}

// Agent is one simulated actor: an identifier, a short-term memory
// dictionary, and an action history. Behaviors read memory through
// observations and the host writes tool outcomes back into it.
type Agent struct {
	id       string
	behavior Behavior

	mu      sync.Mutex
	memory  map[string]any
	history []Action
}

// New builds an agent. A nil behavior is allowed; such an agent only acts
// when a caller submits tools on its behalf.
func New(id string, behavior Behavior) (*Agent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("agent: id required")
	}
	return &Agent{
		id:       id,
		behavior: behavior,
		memory:   make(map[string]any),
	}, nil
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Remember stores a value in short-term memory.
func (a *Agent) Remember(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory[key] = value
}

// Recall fetches a memory value.
func (a *Agent) Recall(key string) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	value, ok := a.memory[key]
	return value, ok
}

// Forget drops a memory entry and reports whether it existed.
func (a *Agent) Forget(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.memory[key]; !ok {
		return false
	}
	delete(a.memory, key)
	return true
}

// MemorySnapshot returns a shallow copy of the memory dictionary.
func (a *Agent) MemorySnapshot() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := make(map[string]any, len(a.memory))
	for k, v := range a.memory {
		snapshot[k] = v
	}
	return snapshot
}

// Observe builds the observation a behavior sees for the given tick.
func (a *Agent) Observe(tick uint64) Observation {
	return Observation{AgentID: a.id, Tick: tick, Memory: a.MemorySnapshot()}
}

// Decide runs the behavior for a tick. Agents without a behavior idle.
func (a *Agent) Decide(tick uint64) (Decision, bool) {
	if a.behavior == nil {
		return Decision{}, false
	}
	return a.behavior.Decide(a.Observe(tick))
}

// RecordSubmission appends a pending action for a submitted tool call.
func (a *Agent) RecordSubmission(tick uint64, toolName, correlationID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, Action{
		Tick:          tick,
		ToolName:      toolName,
		CorrelationID: correlationID,
		At:            time.Now(),
	})
}

// ApplyResult marks the matching pending action complete and, on success,
// merges the response payload into memory under "last_result". Unmatched
// results are ignored; they belong to submissions made outside the agent's
// history.
func (a *Agent) ApplyResult(res ipc.Result) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.history) - 1; i >= 0; i-- {
		action := &a.history[i]
		if action.CorrelationID != res.CorrelationID || action.Completed {
			continue
		}
		action.Completed = true
		if res.Failed() {
			action.Failed = true
			action.Error = res.Err.Error()
		} else {
			a.memory["last_result"] = res.Response.Payload
			a.memory["last_result_tool"] = res.Response.ToolName
			a.memory["last_result_tick"] = res.Response.Tick
		}
		return true
	}
	return false
}

// History returns a copy of the action history, oldest first.
func (a *Agent) History() []Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	history := make([]Action, len(a.history))
	copy(history, a.history)
	return history
}

// ResetMemory clears memory and history, used on simulation reset.
func (a *Agent) ResetMemory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = make(map[string]any)
	a.history = nil
}
