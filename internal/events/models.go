package events

import "time"

// Event types recorded by the host.
const (
	TypeSimStarted    = "sim_started"
	TypeSimStopped    = "sim_stopped"
	TypeSimReset      = "sim_reset"
	TypeToolRequested = "tool_requested"
	TypeToolCompleted = "tool_completed"
	TypeToolFailed    = "tool_failed"
	TypeAgentAdded    = "agent_added"
	TypeAgentRemoved  = "agent_removed"
)

// Event is one tick-tagged occurrence in the simulation. Recorded events,
// together with the configured seed, are what make a run replayable.
type Event struct {
	ID        int64          `json:"id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Tick      uint64         `json:"tick"`
	Type      string         `json:"type"`
	AgentID   string         `json:"agent_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Stats summarizes a recording.
type Stats struct {
	Total     int64
	FirstTick uint64
	LastTick  uint64
	ByType    map[string]int64
}
