// Package logging builds the structured loggers used by the arena daemon
// and CLI.
//
// It wraps log/slog with two output formats: a human-oriented console
// handler that renders single-line "TIME LEVEL component: message key=value"
// records, and a machine-oriented JSON handler for log aggregation. The
// package also defines the standardized attribute keys (agent, tool, tick,
// correlation id) so the same field names appear everywhere.
//
// Construct loggers through New or NewFromConfig and tag subsystems with
// WithComponent rather than embedding prefixes in messages.
package logging
