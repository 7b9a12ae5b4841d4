package ipc

import (
	"errors"
	"strings"
	"time"
)

// Request describes one pending or in-flight tool invocation. The params
// payload is opaque to the channel and passed through to the runtime as-is.
type Request struct {
	ToolName string         `json:"tool_name"`
	Params   map[string]any `json:"params"`
	AgentID  string         `json:"agent_id"`
	Tick     uint64         `json:"tick"`
}

// Validate checks the request fields a caller must supply. An empty agent id
// is permitted and means an anonymous submission context.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ToolName) == "" {
		return errors.New("tool request: tool name required")
	}
	return nil
}

// Response is a decoded exchange outcome. The origin fields are copied from
// the request that produced it so callers can route the result without
// holding their own correlation state.
type Response struct {
	ToolName string         `json:"tool_name"`
	AgentID  string         `json:"agent_id"`
	Tick     uint64         `json:"tick"`
	Payload  map[string]any `json:"payload"`
}

// Ack confirms that a request was accepted into the backlog. It is not a
// result; the outcome arrives later on the channel's result stream. Keeping
// the two types distinct stops callers from mistaking acceptance for
// completion.
type Ack struct {
	CorrelationID string
	Position      int
	Accepted      time.Time
}

// Result is one entry on the result stream: either a decoded Response or the
// error that ended the exchange, never both.
type Result struct {
	CorrelationID string
	Request       Request
	Response      *Response
	Err           error
	Elapsed       time.Duration
}

// Failed reports whether the exchange ended in an error.
func (r Result) Failed() bool { return r.Err != nil }
