// Command arena is the control CLI for the arenad daemon. It speaks
// JSON-RPC over the daemon's Unix socket to drive the simulation, manage
// agents and tool schemas, and inspect the event recording.
package main
