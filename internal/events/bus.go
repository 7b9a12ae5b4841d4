package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"arena/internal/logging"
)

// Handler receives published events synchronously, on the publisher's
// goroutine. Handlers must not block.
type Handler func(Event)

// Bus fans events out to subscribers and, while recording, appends them to
// the store. A nil store disables recording entirely.
type Bus struct {
	store     *Store
	logger    *slog.Logger
	sessionID string
	recording atomic.Bool

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
}

// NewBus builds a bus writing to the given store. sessionID tags recorded
// events so separate daemon runs stay distinguishable in one database.
func NewBus(store *Store, sessionID string, logger *slog.Logger) *Bus {
	return &Bus{
		store:     store,
		logger:    logging.WithComponent(logger, "events"),
		sessionID: sessionID,
		handlers:  make(map[int]Handler),
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// SetRecording toggles persistence of published events.
func (b *Bus) SetRecording(on bool) {
	if b.store == nil {
		return
	}
	b.recording.Store(on)
}

// Recording reports whether published events are persisted.
func (b *Bus) Recording() bool { return b.recording.Load() }

// Publish stamps the event and delivers it to subscribers. While recording,
// the event is appended to the store first; a store failure is logged, not
// propagated, so a full disk cannot halt the simulation.
func (b *Bus) Publish(evt Event) {
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	if evt.SessionID == "" {
		evt.SessionID = b.sessionID
	}

	if b.recording.Load() && b.store != nil {
		if err := b.store.Append(context.Background(), &evt); err != nil {
			b.logger.Warn("failed to record event",
				logging.String("event_type", evt.Type),
				logging.Error(err),
			)
		}
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(evt)
	}
}
