package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"arena/internal/agent"
	"arena/internal/config"
	"arena/internal/events"
	"arena/internal/ipc"
	"arena/internal/logging"
	"arena/internal/preflight"
	"arena/internal/sim"
	"arena/internal/tools"
)

// ErrAlreadyRunning is returned when another daemon instance holds the lock.
var ErrAlreadyRunning = errors.New("another arenad instance is running")

// Daemon owns the simulation host: the event store, the request channel to
// the runtime, the agent and tool registries, and the tick loop. One
// instance per data directory, enforced with a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	sessionID string

	store     *events.Store
	bus       *events.Bus
	transport *ipc.HTTPTransport
	channel   *ipc.Channel
	monitor   *ipc.Monitor
	agents    *agent.Registry
	tools     *tools.Registry
	sim       *sim.Manager

	lock     *flock.Flock
	lockPath string

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New wires a daemon from configuration. The returned daemon is not started.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := events.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}

	sessionID := uuid.NewString()
	bus := events.NewBus(store, sessionID, logger)

	requestTimeout := time.Duration(cfg.Runtime.RequestTimeoutSeconds) * time.Second
	transport := ipc.NewHTTPTransport(cfg.Runtime.BaseURL, requestTimeout)
	channel := ipc.NewChannel(transport,
		ipc.WithLogger(logger),
		ipc.WithRequestTimeout(requestTimeout),
	)
	monitor := ipc.NewMonitor(transport, time.Duration(cfg.Runtime.HealthIntervalSeconds)*time.Second, logger)

	agents := agent.NewRegistry()
	toolRegistry := tools.NewRegistry(channel, logger)
	manager := sim.NewManager(cfg.Simulation, agents, toolRegistry, bus, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "arenad.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logging.WithComponent(logger, "daemon"),
		sessionID: sessionID,
		store:     store,
		bus:       bus,
		transport: transport,
		channel:   channel,
		monitor:   monitor,
		agents:    agents,
		tools:     toolRegistry,
		sim:       manager,
		lock:      flock.New(lockPath),
		lockPath:  lockPath,
	}, nil
}

// Start acquires the instance lock, runs preflight checks, and launches the
// background workers: the health monitor and the result pump feeding tool
// outcomes back into the simulation. The tick loop starts separately via
// the control surface.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}

	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, d.lockPath)
	}

	checks := preflight.Run(ctx, d.cfg, d.transport)
	for _, check := range checks {
		d.logger.Debug("preflight check",
			logging.String("check", check.Name),
			logging.Bool("ready", check.Ready),
			logging.String("detail", check.Detail),
		)
	}
	if !preflight.Ready(checks) {
		failure, _ := preflight.FirstFailure(checks)
		_ = d.lock.Unlock()
		return fmt.Errorf("preflight: %s not ready: %s", failure.Name, failure.Detail)
	}

	if d.cfg.Events.RecordOnStart {
		d.bus.SetRecording(true)
	}

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	group, groupCtx := errgroup.WithContext(workerCtx)
	group.Go(func() error {
		err := d.monitor.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		for res := range d.channel.Results() {
			d.sim.HandleResult(res)
		}
		return nil
	})

	d.cancel = cancel
	d.group = group
	d.started = true
	d.logger.Info("daemon started",
		logging.String(logging.FieldSessionID, d.sessionID),
		logging.String("runtime_url", d.transport.BaseURL()),
		logging.Bool("recording", d.bus.Recording()),
	)
	return nil
}

// Stop halts the tick loop and the background workers and releases the
// instance lock. The event store stays open until Close.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	cancel := d.cancel
	group := d.group
	d.cancel = nil
	d.group = nil
	d.mu.Unlock()

	if err := d.sim.Stop(); err != nil && !errors.Is(err, sim.ErrNotRunning) {
		d.logger.Warn("stopping simulation", logging.Error(err))
	}
	d.channel.Close()
	cancel()
	if err := group.Wait(); err != nil {
		d.logger.Warn("background worker exited with error", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release instance lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped", logging.String(logging.FieldSessionID, d.sessionID))
}

// Close stops the daemon and closes the event store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}

// Sim exposes the tick loop manager.
func (d *Daemon) Sim() *sim.Manager { return d.sim }

// Agents exposes the agent registry.
func (d *Daemon) Agents() *agent.Registry { return d.agents }

// Tools exposes the tool registry.
func (d *Daemon) Tools() *tools.Registry { return d.tools }

// Bus exposes the event bus.
func (d *Daemon) Bus() *events.Bus { return d.bus }

// Store exposes the event recording store.
func (d *Daemon) Store() *events.Store { return d.store }

// Channel exposes the request channel.
func (d *Daemon) Channel() *ipc.Channel { return d.channel }

// SessionID identifies this daemon run in event recordings.
func (d *Daemon) SessionID() string { return d.sessionID }

// Status describes the daemon for the control surface.
type Status struct {
	PID        int
	SessionID  string
	Started    bool
	Connected  bool
	Recording  bool
	RuntimeURL string
	StorePath  string
	LockPath   string
	QueueDepth int
	InFlight   bool
	Sim        sim.Status
}

// Status summarizes the daemon's current state.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()

	return Status{
		PID:        os.Getpid(),
		SessionID:  d.sessionID,
		Started:    started,
		Connected:  d.monitor.Connected(),
		Recording:  d.bus.Recording(),
		RuntimeURL: d.transport.BaseURL(),
		StorePath:  d.store.Path(),
		LockPath:   d.lockPath,
		QueueDepth: d.channel.Depth(),
		InFlight:   d.channel.InFlight(),
		Sim:        d.sim.Status(),
	}
}
