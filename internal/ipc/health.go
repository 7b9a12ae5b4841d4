package ipc

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"arena/internal/logging"
)

const defaultHealthInterval = 10 * time.Second

// Monitor periodically probes the runtime's health endpoint and tracks a
// connected flag. The flag is advisory: the channel keeps accepting
// submissions while disconnected and the exchanges simply fail.
type Monitor struct {
	transport Transport
	interval  time.Duration
	logger    *slog.Logger
	connected atomic.Bool
}

// NewMonitor builds a monitor over the given transport. Non-positive
// intervals fall back to the default.
func NewMonitor(transport Transport, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &Monitor{
		transport: transport,
		interval:  interval,
		logger:    logging.WithComponent(logger, "health"),
	}
}

// Connected reports the result of the most recent probe.
func (m *Monitor) Connected() bool { return m.connected.Load() }

// Check runs a single probe and updates the connected flag. State
// transitions are logged; steady states are not.
func (m *Monitor) Check(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.transport.Health(probeCtx)
	healthy := err == nil
	previous := m.connected.Swap(healthy)
	switch {
	case healthy && !previous:
		m.logger.Info("runtime connected")
	case !healthy && previous:
		m.logger.Warn("runtime disconnected", logging.Error(err))
	}
	return err
}

// Run probes immediately and then on every interval until the context ends.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
