// Package sim hosts the deterministic tick loop.
//
// The Manager advances a tick counter on a configured rate (or via manual
// stepping while paused), dispatches each agent's perceive/decide cycle in
// id order, and submits decided tool calls through the tool registry. Tool
// outcomes flow back through HandleResult, which updates agent memory and
// records completion events. Determinism comes from the seeded RNG, the
// fixed dispatch order, and the event recording.
package sim
