package tools

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"arena/internal/ipc"
	"arena/internal/logging"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("tool already registered")
	ErrMissingParams = errors.New("missing params")
)

// Registry holds the schemas of the tools the runtime can execute and routes
// invocations through the request channel.
type Registry struct {
	channel *ipc.Channel
	logger  *slog.Logger

	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry builds an empty registry submitting through the given channel.
func NewRegistry(channel *ipc.Channel, logger *slog.Logger) *Registry {
	return &Registry{
		channel: channel,
		logger:  logging.WithComponent(logger, "tools"),
		schemas: make(map[string]Schema),
	}
}

// Register adds a schema. Registering a name twice is an error; use
// Unregister first to replace a tool.
func (r *Registry) Register(schema Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	schema.Name = strings.TrimSpace(schema.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, schema.Name)
	}
	r.schemas[schema.Name] = schema
	r.logger.Info("tool registered", logging.String(logging.FieldTool, schema.Name))
	return nil
}

// Unregister removes a schema and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[name]; !exists {
		return false
	}
	delete(r.schemas, name)
	r.logger.Info("tool unregistered", logging.String(logging.FieldTool, name))
	return true
}

// Schema looks up a registered schema by name.
func (r *Registry) Schema(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[name]
	return schema, ok
}

// Names lists registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas lists registered schemas sorted by name.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]Schema, 0, len(r.schemas))
	for _, schema := range r.schemas {
		schemas = append(schemas, schema)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// Execute validates an invocation against its schema and submits it. The
// returned ack confirms queueing only; the outcome arrives on the channel's
// result stream.
func (r *Registry) Execute(agentID string, tick uint64, name string, params map[string]any) (ipc.Ack, error) {
	schema, ok := r.Schema(name)
	if !ok {
		return ipc.Ack{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]any{}
	}
	if err := schema.CheckArgs(params); err != nil {
		return ipc.Ack{}, err
	}
	return r.channel.Submit(ipc.Request{
		ToolName: schema.Name,
		Params:   params,
		AgentID:  agentID,
		Tick:     tick,
	})
}

func sorted(values []string) []string {
	sort.Strings(values)
	return values
}
