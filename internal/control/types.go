package control

// ServiceName is the RPC service the daemon registers on its socket.
const ServiceName = "Arena"

type PingRequest struct{}

type PingResponse struct {
	PID       int    `json:"pid"`
	SessionID string `json:"session_id"`
}

type StatusRequest struct{}

type StatusResponse struct {
	PID        int     `json:"pid"`
	SessionID  string  `json:"session_id"`
	Started    bool    `json:"started"`
	Connected  bool    `json:"connected"`
	Recording  bool    `json:"recording"`
	RuntimeURL string  `json:"runtime_url"`
	StorePath  string  `json:"store_path"`
	LockPath   string  `json:"lock_path"`
	QueueDepth int     `json:"queue_depth"`
	InFlight   bool    `json:"in_flight"`
	SimRunning bool    `json:"sim_running"`
	Tick       uint64  `json:"tick"`
	Seed       uint64  `json:"seed"`
	TickRate   float64 `json:"tick_rate"`
	Agents     int     `json:"agents"`
	Tools      int     `json:"tools"`
}

type SimStartRequest struct{}

type SimStartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

type SimStopRequest struct{}

type SimStopResponse struct {
	Stopped bool   `json:"stopped"`
	Message string `json:"message"`
}

type SimStepRequest struct {
	Count int `json:"count"`
}

type SimStepResponse struct {
	Tick uint64 `json:"tick"`
}

type SimResetRequest struct{}

type SimResetResponse struct {
	Tick uint64 `json:"tick"`
}

type AgentAddRequest struct {
	ID string `json:"id"`
}

type AgentAddResponse struct{}

type AgentRemoveRequest struct {
	ID string `json:"id"`
}

type AgentRemoveResponse struct {
	Removed bool `json:"removed"`
}

type AgentListRequest struct{}

type AgentInfo struct {
	ID             string `json:"id"`
	MemoryEntries  int    `json:"memory_entries"`
	Actions        int    `json:"actions"`
	PendingActions int    `json:"pending_actions"`
}

type AgentListResponse struct {
	Agents []AgentInfo `json:"agents"`
}

type ToolParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type ToolInfo struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Description string      `json:"description,omitempty"`
	Params      []ToolParam `json:"params,omitempty"`
}

type ToolRegisterRequest struct {
	Tool ToolInfo `json:"tool"`
}

type ToolRegisterResponse struct{}

type ToolUnregisterRequest struct {
	Name string `json:"name"`
}

type ToolUnregisterResponse struct {
	Removed bool `json:"removed"`
}

type ToolListRequest struct{}

type ToolListResponse struct {
	Tools []ToolInfo `json:"tools"`
}

type ToolCallRequest struct {
	AgentID string         `json:"agent_id"`
	Tool    string         `json:"tool"`
	Params  map[string]any `json:"params"`
}

type ToolCallResponse struct {
	CorrelationID string `json:"correlation_id"`
	Position      int    `json:"position"`
}

type EventRecord struct {
	ID        int64          `json:"id"`
	SessionID string         `json:"session_id"`
	Tick      uint64         `json:"tick"`
	Type      string         `json:"type"`
	AgentID   string         `json:"agent_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type EventsRecentRequest struct {
	Limit int `json:"limit"`
}

type EventsRecentResponse struct {
	Events []EventRecord `json:"events"`
}

type EventsStatsRequest struct{}

type EventsStatsResponse struct {
	Total     int64            `json:"total"`
	FirstTick uint64           `json:"first_tick"`
	LastTick  uint64           `json:"last_tick"`
	ByType    map[string]int64 `json:"by_type"`
}

type EventsExportRequest struct {
	Path string `json:"path"`
}

type EventsExportResponse struct {
	Exported int64  `json:"exported"`
	Path     string `json:"path"`
}

type EventsImportRequest struct {
	Path string `json:"path"`
}

type EventsImportResponse struct {
	Imported int    `json:"imported"`
	Path     string `json:"path"`
}

type EventsRangeRequest struct {
	FromTick uint64 `json:"from_tick"`
	ToTick   uint64 `json:"to_tick"`
}

type EventsRangeResponse struct {
	Events []EventRecord `json:"events"`
}

type EventsClearRequest struct{}

type EventsClearResponse struct {
	Removed int64 `json:"removed"`
}

type RecordSetRequest struct {
	Enabled bool `json:"enabled"`
}

type RecordSetResponse struct {
	Recording bool `json:"recording"`
}
