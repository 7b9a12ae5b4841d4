package logging

import (
	"context"
	"log/slog"
)

// Standardized attribute keys used across arena log output.
const (
	FieldComponent     = "component"
	FieldAgentID       = "agent_id"
	FieldTool          = "tool"
	FieldTick          = "tick"
	FieldCorrelationID = "correlation_id"
	FieldErrorKind     = "error_kind"
	FieldDuration      = "duration"
	FieldSessionID     = "session_id"
)

// String builds a string attribute.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Int builds an int attribute.
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

// Int64 builds an int64 attribute.
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

// Uint64 builds a uint64 attribute.
func Uint64(key string, value uint64) slog.Attr { return slog.Uint64(key, value) }

// Bool builds a bool attribute.
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

// Error builds an attribute carrying an error message.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Any builds an attribute for arbitrary values.
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Component returns a component attribute for namespacing log lines.
func Component(name string) slog.Attr { return slog.String(FieldComponent, name) }

// WithComponent derives a logger tagged with a component name.
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(Component(name))
}

// NewNop returns a logger that discards everything. Useful in tests and as a
// fallback when a caller passes a nil logger.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h noopHandler) WithGroup(string) slog.Handler           { return h }
