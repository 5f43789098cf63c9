package events

import (
	"context"
	"fmt"
	"sync"

	"realty_site_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Asynchronous handlers run
// in tracked goroutines so callers can wait for in-flight work to drain
// before the process exits; detached work is never silently dropped.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all registered handlers, each in its own
// goroutine. Handler errors and panics are logged and swallowed; they never
// reach the publisher. The request context may already be cancelled by the
// time a handler runs, so handlers receive a detached context.
func (b *InMemoryBus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("event handler panicked",
						"event", event.EventName(), "panic", fmt.Sprint(r))
				}
			}()
			if err := h.Handle(context.Background(), event); err != nil && b.log != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(), "error", err)
			}
		}(h)
	}
}

// PublishSync dispatches the event and waits for every handler, returning
// the first handler error encountered.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if b.log != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(), "error", err)
			}
		}
	}
	return firstErr
}

// Wait blocks until all asynchronously dispatched handlers have finished.
// Called during graceful shutdown.
func (b *InMemoryBus) Wait() {
	b.inflight.Wait()
}
