package ipc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classifying how an exchange can fail. Failures are always
// local to a single request; none of them stop the channel from draining the
// next queued item.
var (
	// ErrTransport marks network or connection errors raised before any
	// response arrived.
	ErrTransport = errors.New("transport failure")
	// ErrRemoteRejected marks responses carrying a non-success status.
	ErrRemoteRejected = errors.New("remote rejection")
	// ErrDecode marks response bodies that are not a JSON object.
	ErrDecode = errors.New("decode failure")
	// ErrChannelClosed is returned by Submit after Close.
	ErrChannelClosed = errors.New("channel closed")
)

// RemoteError carries the status code and a body snippet from a rejected
// exchange for diagnostics.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, body)
}

// ErrorKind maps an exchange error to its stable classification label, used
// for log fields and event records.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteRejected):
		return "remote_rejection"
	case errors.Is(err, ErrDecode):
		return "decode_failure"
	case errors.Is(err, ErrChannelClosed):
		return "channel_closed"
	case errors.Is(err, ErrTransport):
		return "transport_failure"
	default:
		return "transport_failure"
	}
}
