package daemon

import (
	"context"
	"fmt"
	"os"

	"arena/internal/agent"
	"arena/internal/events"
	"arena/internal/ipc"
	"arena/internal/logging"
	"arena/internal/tools"
)

// AgentSummary is a control-surface view of one agent.
type AgentSummary struct {
	ID             string
	MemoryEntries  int
	Actions        int
	PendingActions int
}

// AddAgent registers a new agent without a behavior. Such agents act only
// through operator-driven tool calls.
func (d *Daemon) AddAgent(id string) error {
	a, err := agent.New(id, nil)
	if err != nil {
		return err
	}
	if err := d.agents.Register(a); err != nil {
		return err
	}
	d.bus.Publish(events.Event{Tick: d.sim.Tick(), Type: events.TypeAgentAdded, AgentID: a.ID()})
	return nil
}

// RemoveAgent unregisters an agent and reports whether it existed.
func (d *Daemon) RemoveAgent(id string) bool {
	removed := d.agents.Unregister(id)
	if removed {
		d.bus.Publish(events.Event{Tick: d.sim.Tick(), Type: events.TypeAgentRemoved, AgentID: id})
	}
	return removed
}

// ListAgents summarizes every registered agent in id order.
func (d *Daemon) ListAgents() []AgentSummary {
	registered := d.agents.List()
	summaries := make([]AgentSummary, 0, len(registered))
	for _, a := range registered {
		history := a.History()
		pending := 0
		for _, action := range history {
			if !action.Completed {
				pending++
			}
		}
		summaries = append(summaries, AgentSummary{
			ID:             a.ID(),
			MemoryEntries:  len(a.MemorySnapshot()),
			Actions:        len(history),
			PendingActions: pending,
		})
	}
	return summaries
}

// RegisterTool adds a tool schema to the registry.
func (d *Daemon) RegisterTool(schema tools.Schema) error {
	return d.tools.Register(schema)
}

// UnregisterTool removes a tool schema.
func (d *Daemon) UnregisterTool(name string) bool {
	return d.tools.Unregister(name)
}

// ListTools returns the registered schemas sorted by name.
func (d *Daemon) ListTools() []tools.Schema {
	return d.tools.Schemas()
}

// CallTool submits an operator-driven tool invocation.
func (d *Daemon) CallTool(agentID, name string, params map[string]any) (ipc.Ack, error) {
	return d.sim.SubmitTool(agentID, name, params)
}

// StartSim launches the tick loop.
func (d *Daemon) StartSim(ctx context.Context) error {
	return d.sim.Start(ctx)
}

// StopSim halts the tick loop.
func (d *Daemon) StopSim() error {
	return d.sim.Stop()
}

// StepSim advances the paused simulation by n ticks.
func (d *Daemon) StepSim(n int) (uint64, error) {
	return d.sim.Step(n)
}

// ResetSim rewinds the simulation to tick zero.
func (d *Daemon) ResetSim() error {
	return d.sim.Reset()
}

// SetRecording toggles event persistence.
func (d *Daemon) SetRecording(on bool) {
	d.bus.SetRecording(on)
}

// RecentEvents returns the newest recorded events.
func (d *Daemon) RecentEvents(ctx context.Context, limit int) ([]events.Event, error) {
	return d.store.Recent(ctx, limit)
}

// EventStats summarizes the recording.
func (d *Daemon) EventStats(ctx context.Context) (events.Stats, error) {
	return d.store.Stats(ctx)
}

// ExportEvents writes the recording to the given path as JSON and returns
// the number of exported events.
func (d *Daemon) ExportEvents(ctx context.Context, path string) (int64, error) {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		return 0, err
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()
	if err := d.store.Export(ctx, file); err != nil {
		return 0, err
	}
	d.logger.Info("events exported",
		logging.String("path", path),
		logging.Int64("count", stats.Total),
	)
	return stats.Total, nil
}

// ImportEvents appends events from a JSON export file into the recording
// and returns how many were inserted.
func (d *Daemon) ImportEvents(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()
	imported, err := d.store.Load(ctx, file)
	if err != nil {
		return imported, err
	}
	d.logger.Info("events imported",
		logging.String("path", path),
		logging.Int("count", imported),
	)
	return imported, nil
}

// EventsInRange returns recorded events with from <= tick <= to.
func (d *Daemon) EventsInRange(ctx context.Context, from, to uint64) ([]events.Event, error) {
	return d.store.ByTickRange(ctx, from, to)
}

// ClearEvents drops the recording and reports how many events were removed.
func (d *Daemon) ClearEvents(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}
