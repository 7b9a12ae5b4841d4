package ipc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"arena/internal/logging"
)

const defaultResultBuffer = 16

// Channel owns the single in-flight exchange against the runtime. Submit
// enqueues and returns immediately; outcomes arrive on Results in strict
// submission order because only one exchange runs at a time. A failed
// exchange never wedges the channel: the in-flight slot is cleared and the
// next queued item is sent regardless of outcome.
type Channel struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration
	stallWarn time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	queue    Queue
	inFlight *Submission
	closed   bool

	results   chan Result
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// ChannelOption customizes channel construction.
type ChannelOption func(*Channel)

// WithLogger attaches a logger for exchange lifecycle events.
func WithLogger(logger *slog.Logger) ChannelOption {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestTimeout bounds each exchange. The transport's own timeout still
// applies; this one additionally cancels the exchange context.
func WithRequestTimeout(timeout time.Duration) ChannelOption {
	return func(c *Channel) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithResultBuffer sets the result stream buffer size.
func WithResultBuffer(size int) ChannelOption {
	return func(c *Channel) {
		if size > 0 {
			c.results = make(chan Result, size)
		}
	}
}

// NewChannel builds an idle channel over the given transport.
func NewChannel(transport Transport, opts ...ChannelOption) *Channel {
	ctx, cancel := context.WithCancel(context.Background())
	channel := &Channel{
		transport: transport,
		logger:    logging.NewNop(),
		timeout:   defaultRequestTimeout,
		ctx:       ctx,
		cancel:    cancel,
		results:   make(chan Result, defaultResultBuffer),
	}
	for _, opt := range opts {
		opt(channel)
	}
	channel.stallWarn = channel.timeout + channel.timeout/2
	channel.logger = logging.WithComponent(channel.logger, "channel")
	return channel
}

// Submit accepts a request into the backlog and returns an acknowledgment.
// It never blocks on the network; the outcome arrives later on Results. If
// nothing is in flight the request is sent immediately.
func (c *Channel) Submit(req Request) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	if req.Params == nil {
		req.Params = map[string]any{}
	}

	sub := Submission{ID: uuid.NewString(), Request: req}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Ack{}, ErrChannelClosed
	}
	c.queue.Enqueue(sub)
	position := c.queue.Len()
	if c.inFlight != nil {
		position++
	}
	c.drainNextLocked()
	c.mu.Unlock()

	c.logger.Debug("request accepted",
		logging.String(logging.FieldCorrelationID, sub.ID),
		logging.String(logging.FieldTool, req.ToolName),
		logging.String(logging.FieldAgentID, req.AgentID),
		logging.Uint64(logging.FieldTick, req.Tick),
		logging.Int("position", position),
	)
	return Ack{CorrelationID: sub.ID, Position: position, Accepted: time.Now()}, nil
}

// Results exposes the outcome stream. It is closed after Close once the
// in-flight exchange, if any, has wound down.
func (c *Channel) Results() <-chan Result { return c.results }

// Depth reports the number of queued, not yet sent submissions.
func (c *Channel) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// InFlight reports whether an exchange is currently outstanding.
func (c *Channel) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != nil
}

// Close abandons the in-flight exchange, drops queued submissions, and
// closes the result stream. No result is delivered for abandoned work.
// Close blocks until the exchange goroutine has stopped.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		dropped := c.queue.Clear()
		c.mu.Unlock()

		c.cancel()
		c.wg.Wait()
		close(c.results)

		if dropped > 0 {
			c.logger.Info("dropped queued requests on close", logging.Int("count", dropped))
		}
	})
}

// drainNextLocked starts the next exchange when the slot is free. Callers
// must hold c.mu. The at-most-one-in-flight invariant lives here: the method
// is a no-op while an exchange is outstanding.
func (c *Channel) drainNextLocked() {
	if c.closed || c.inFlight != nil {
		return
	}
	sub, ok := c.queue.DequeueNext()
	if !ok {
		return
	}
	c.inFlight = &sub
	c.wg.Add(1)
	go c.exchange(sub)
}

// exchange performs one send, delivers its result, and drains the next item.
// Exactly one instance runs at a time; result delivery happens before the
// next send starts, which keeps the stream in FIFO order by construction.
func (c *Channel) exchange(sub Submission) {
	defer c.wg.Done()

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
		defer cancel()
	}

	var stall *time.Timer
	if c.stallWarn > 0 {
		stall = time.AfterFunc(c.stallWarn, func() {
			c.logger.Warn("exchange exceeded its deadline and is stalling the queue",
				logging.String(logging.FieldCorrelationID, sub.ID),
				logging.String(logging.FieldTool, sub.Request.ToolName),
				logging.String(logging.FieldErrorKind, "queue_stall"),
			)
		})
		defer stall.Stop()
	}

	start := time.Now()
	payload, err := c.transport.Execute(ctx, sub.Request)
	elapsed := time.Since(start)

	result := Result{
		CorrelationID: sub.ID,
		Request:       sub.Request,
		Elapsed:       elapsed,
	}
	if err != nil {
		result.Err = err
		c.logger.Warn("exchange failed",
			logging.String(logging.FieldCorrelationID, sub.ID),
			logging.String(logging.FieldTool, sub.Request.ToolName),
			logging.String(logging.FieldAgentID, sub.Request.AgentID),
			logging.Uint64(logging.FieldTick, sub.Request.Tick),
			logging.String(logging.FieldErrorKind, ErrorKind(err)),
			logging.Error(err),
		)
	} else {
		result.Response = &Response{
			ToolName: sub.Request.ToolName,
			AgentID:  sub.Request.AgentID,
			Tick:     sub.Request.Tick,
			Payload:  payload,
		}
		c.logger.Debug("exchange complete",
			logging.String(logging.FieldCorrelationID, sub.ID),
			logging.String(logging.FieldTool, sub.Request.ToolName),
			logging.Any(logging.FieldDuration, elapsed),
		)
	}

	// Deliver before releasing the slot so the stream stays in submission
	// order. Abandoned exchanges deliver nothing: Close marks the channel
	// closed before cancelling, so observing the flag here is enough.
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		select {
		case c.results <- result:
		case <-c.ctx.Done():
		}
	}

	c.mu.Lock()
	c.inFlight = nil
	c.drainNextLocked()
	c.mu.Unlock()
}
