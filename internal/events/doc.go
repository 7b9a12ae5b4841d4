// Package events records what happens in the simulation.
//
// The Bus fans tick-tagged events out to in-process subscribers and, while
// recording, appends them to a SQLite store. A recording plus the configured
// RNG seed is enough to replay a run: export produces a JSON array, load
// reads one back.
package events
