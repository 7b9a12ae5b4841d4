// Package daemon assembles the simulation host process.
//
// A Daemon owns the event store, the request channel to the external tool
// runtime, the agent and tool registries, and the tick loop manager. Start
// acquires a per-data-directory file lock, runs preflight checks, and spins
// up the health monitor plus the result pump that feeds exchange outcomes
// back into the simulation. The control server in internal/control calls
// into the daemon's exported operations.
package daemon
