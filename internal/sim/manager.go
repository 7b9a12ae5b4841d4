package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"arena/internal/agent"
	"arena/internal/config"
	"arena/internal/events"
	"arena/internal/ipc"
	"arena/internal/logging"
	"arena/internal/tools"
)

var (
	ErrAlreadyRunning = errors.New("simulation already running")
	ErrNotRunning     = errors.New("simulation not running")
)

// Manager drives the deterministic tick loop. Each tick it advances the
// counter and runs every agent's perceive/decide cycle in id order,
// submitting the resulting tool calls through the registry. Tool outcomes
// come back asynchronously via HandleResult.
type Manager struct {
	cfg    config.Simulation
	agents *agent.Registry
	tools  *tools.Registry
	bus    *events.Bus
	logger *slog.Logger

	mu      sync.Mutex
	tick    uint64
	running bool
	rng     *rand.Rand
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager builds a stopped manager at tick zero with the configured seed.
func NewManager(cfg config.Simulation, agents *agent.Registry, toolRegistry *tools.Registry, bus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		agents: agents,
		tools:  toolRegistry,
		bus:    bus,
		logger: logging.WithComponent(logger, "sim"),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
	}
}

// Start launches the tick loop. The loop stops when Stop is called or the
// context ends.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	startTick := m.tick
	m.mu.Unlock()

	m.bus.Publish(events.Event{Tick: startTick, Type: events.TypeSimStarted, Payload: map[string]any{
		"seed":      m.cfg.Seed,
		"tick_rate": m.cfg.TickRate,
	}})
	m.logger.Info("simulation started",
		logging.Uint64(logging.FieldTick, startTick),
		logging.Uint64("seed", m.cfg.Seed),
	)

	go m.run(loopCtx)
	return nil
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	interval := time.Duration(float64(time.Second) / m.cfg.TickRate)
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.advanceTick()
		}
	}
}

// Stop halts the tick loop and waits for it to exit. Stopping a stopped
// simulation returns ErrNotRunning.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	cancel := m.cancel
	done := m.done
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	<-done

	finalTick := m.Tick()
	m.bus.Publish(events.Event{Tick: finalTick, Type: events.TypeSimStopped})
	m.logger.Info("simulation stopped", logging.Uint64(logging.FieldTick, finalTick))
	return nil
}

// Step advances n ticks synchronously. Manual stepping is only allowed while
// the loop is stopped, so a run is driven by exactly one clock.
func (m *Manager) Step(n int) (uint64, error) {
	if n <= 0 {
		return m.Tick(), fmt.Errorf("step count must be positive, got %d", n)
	}
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	if running {
		return m.Tick(), ErrAlreadyRunning
	}
	for i := 0; i < n; i++ {
		m.advanceTick()
	}
	return m.Tick(), nil
}

// Reset stops the loop if needed, rewinds the tick counter, reseeds the RNG,
// and clears agent memories. With the same seed and tool outcomes a reset
// run replays identically.
func (m *Manager) Reset() error {
	if err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	m.mu.Lock()
	m.tick = 0
	m.rng = rand.New(rand.NewPCG(m.cfg.Seed, m.cfg.Seed))
	m.mu.Unlock()

	for _, a := range m.agents.List() {
		a.ResetMemory()
	}

	m.bus.Publish(events.Event{Tick: 0, Type: events.TypeSimReset, Payload: map[string]any{"seed": m.cfg.Seed}})
	m.logger.Info("simulation reset", logging.Uint64("seed", m.cfg.Seed))
	return nil
}

// Tick reports the current tick counter.
func (m *Manager) Tick() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick
}

// Running reports whether the tick loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Rand exposes the seeded RNG for behaviors. It is only safe to use from a
// behavior callback, which runs on the tick goroutine.
func (m *Manager) Rand() *rand.Rand { return m.rng }

func (m *Manager) advanceTick() {
	m.mu.Lock()
	m.tick++
	tick := m.tick
	m.mu.Unlock()

	for _, a := range m.agents.List() {
		decision, ok := a.Decide(tick)
		if !ok {
			continue
		}
		ack, err := m.tools.Execute(a.ID(), tick, decision.ToolName, decision.Params)
		if err != nil {
			m.logger.Warn("tool submission rejected",
				logging.String(logging.FieldAgentID, a.ID()),
				logging.String(logging.FieldTool, decision.ToolName),
				logging.Uint64(logging.FieldTick, tick),
				logging.Error(err),
			)
			continue
		}
		a.RecordSubmission(tick, decision.ToolName, ack.CorrelationID)
		m.bus.Publish(events.Event{
			Tick:    tick,
			Type:    events.TypeToolRequested,
			AgentID: a.ID(),
			Payload: map[string]any{
				"tool":           decision.ToolName,
				"correlation_id": ack.CorrelationID,
				"reason":         decision.Reason,
			},
		})
	}
}

// SubmitTool invokes a tool on behalf of an agent outside the tick loop,
// for operator-driven calls. The agent may be unknown; the submission then
// carries the id as anonymous context.
func (m *Manager) SubmitTool(agentID, toolName string, params map[string]any) (ipc.Ack, error) {
	tick := m.Tick()
	ack, err := m.tools.Execute(agentID, tick, toolName, params)
	if err != nil {
		return ipc.Ack{}, err
	}
	if a, ok := m.agents.Get(agentID); ok {
		a.RecordSubmission(tick, toolName, ack.CorrelationID)
	}
	m.bus.Publish(events.Event{
		Tick:    tick,
		Type:    events.TypeToolRequested,
		AgentID: agentID,
		Payload: map[string]any{
			"tool":           toolName,
			"correlation_id": ack.CorrelationID,
			"manual":         true,
		},
	})
	return ack, nil
}

// HandleResult routes one exchange outcome back to its agent and records
// the completion event.
func (m *Manager) HandleResult(res ipc.Result) {
	if a, ok := m.agents.Get(res.Request.AgentID); ok {
		a.ApplyResult(res)
	}

	if res.Failed() {
		m.bus.Publish(events.Event{
			Tick:    res.Request.Tick,
			Type:    events.TypeToolFailed,
			AgentID: res.Request.AgentID,
			Payload: map[string]any{
				"tool":           res.Request.ToolName,
				"correlation_id": res.CorrelationID,
				"error_kind":     ipc.ErrorKind(res.Err),
				"error":          res.Err.Error(),
			},
		})
		return
	}
	m.bus.Publish(events.Event{
		Tick:    res.Request.Tick,
		Type:    events.TypeToolCompleted,
		AgentID: res.Request.AgentID,
		Payload: map[string]any{
			"tool":           res.Request.ToolName,
			"correlation_id": res.CorrelationID,
			"payload":        res.Response.Payload,
		},
	})
}
