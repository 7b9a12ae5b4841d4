package control

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to a running daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the control socket at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(ServiceName+"."+method, req, resp)
}

// Ping verifies the daemon answers on the socket.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.call("Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimStart launches the tick loop.
func (c *Client) SimStart() (*SimStartResponse, error) {
	var resp SimStartResponse
	if err := c.call("SimStart", SimStartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimStop halts the tick loop.
func (c *Client) SimStop() (*SimStopResponse, error) {
	var resp SimStopResponse
	if err := c.call("SimStop", SimStopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimStep advances the paused simulation.
func (c *Client) SimStep(count int) (*SimStepResponse, error) {
	var resp SimStepResponse
	if err := c.call("SimStep", SimStepRequest{Count: count}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SimReset rewinds the simulation to tick zero.
func (c *Client) SimReset() (*SimResetResponse, error) {
	var resp SimResetResponse
	if err := c.call("SimReset", SimResetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AgentAdd registers a new agent.
func (c *Client) AgentAdd(id string) error {
	var resp AgentAddResponse
	return c.call("AgentAdd", AgentAddRequest{ID: id}, &resp)
}

// AgentRemove unregisters an agent.
func (c *Client) AgentRemove(id string) (*AgentRemoveResponse, error) {
	var resp AgentRemoveResponse
	if err := c.call("AgentRemove", AgentRemoveRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AgentList summarizes the registered agents.
func (c *Client) AgentList() (*AgentListResponse, error) {
	var resp AgentListResponse
	if err := c.call("AgentList", AgentListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToolRegister adds a tool schema.
func (c *Client) ToolRegister(tool ToolInfo) error {
	var resp ToolRegisterResponse
	return c.call("ToolRegister", ToolRegisterRequest{Tool: tool}, &resp)
}

// ToolUnregister removes a tool schema.
func (c *Client) ToolUnregister(name string) (*ToolUnregisterResponse, error) {
	var resp ToolUnregisterResponse
	if err := c.call("ToolUnregister", ToolUnregisterRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToolList returns the registered tool schemas.
func (c *Client) ToolList() (*ToolListResponse, error) {
	var resp ToolListResponse
	if err := c.call("ToolList", ToolListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToolCall submits a tool invocation and returns its acknowledgment.
func (c *Client) ToolCall(agentID, tool string, params map[string]any) (*ToolCallResponse, error) {
	var resp ToolCallResponse
	req := ToolCallRequest{AgentID: agentID, Tool: tool, Params: params}
	if err := c.call("ToolCall", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsRecent returns the newest recorded events.
func (c *Client) EventsRecent(limit int) (*EventsRecentResponse, error) {
	var resp EventsRecentResponse
	if err := c.call("EventsRecent", EventsRecentRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsStats summarizes the recording.
func (c *Client) EventsStats() (*EventsStatsResponse, error) {
	var resp EventsStatsResponse
	if err := c.call("EventsStats", EventsStatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsExport writes the recording to a file on the daemon host.
func (c *Client) EventsExport(path string) (*EventsExportResponse, error) {
	var resp EventsExportResponse
	if err := c.call("EventsExport", EventsExportRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsImport loads a JSON export file on the daemon host into the recording.
func (c *Client) EventsImport(path string) (*EventsImportResponse, error) {
	var resp EventsImportResponse
	if err := c.call("EventsImport", EventsImportRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsRange returns recorded events with ticks in the given range.
func (c *Client) EventsRange(from, to uint64) (*EventsRangeResponse, error) {
	var resp EventsRangeResponse
	if err := c.call("EventsRange", EventsRangeRequest{FromTick: from, ToTick: to}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventsClear drops the recording.
func (c *Client) EventsClear() (*EventsClearResponse, error) {
	var resp EventsClearResponse
	if err := c.call("EventsClear", EventsClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordSet toggles event recording.
func (c *Client) RecordSet(enabled bool) (*RecordSetResponse, error) {
	var resp RecordSetResponse
	if err := c.call("RecordSet", RecordSetRequest{Enabled: enabled}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
