// Package messaging carries admin-change events from the command handlers to
// their in-process subscribers: the recent-changes feed and the dashboard
// cache invalidator. The service runs as a single instance, so the bus is
// in-memory; handlers run on a bounded worker pool so a slow subscriber
// cannot stall a save.
package messaging

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ErrBusClosed is returned when publishing or subscribing after Close.
var ErrBusClosed = errors.New("messaging: event bus is closed")

const defaultWorkers = 8

// EventBus fans events out to subscribers. Publish never blocks on handler
// execution and never returns a handler's error; subscribers own their
// failures.
type EventBus struct {
	mu      sync.RWMutex
	byType  map[shared.EventType][]shared.EventHandler
	global  []shared.EventHandler
	slots   chan struct{}
	log     *slog.Logger
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup
}

// NewEventBus creates a bus with the given worker limit. workers <= 0 uses
// the default.
func NewEventBus(workers int, log *slog.Logger) *EventBus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = slog.Default()
	}
	return &EventBus{
		byType:  make(map[shared.EventType][]shared.EventHandler),
		slots:   make(chan struct{}, workers),
		log:     log,
		closing: make(chan struct{}),
	}
}

// Subscribe registers a handler for one event type.
func (b *EventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.byType[eventType] = append(b.byType[eventType], handler)
	return nil
}

// SubscribeAll registers a handler that receives every event.
func (b *EventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.global = append(b.global, handler)
	return nil
}

// Publish delivers the event to every matching subscriber asynchronously.
func (b *EventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("messaging: nil event")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]shared.EventHandler, 0, len(b.byType[event.EventType()])+len(b.global))
	handlers = append(handlers, b.byType[event.EventType()]...)
	handlers = append(handlers, b.global...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.wg.Add(1)
		go b.deliver(event, h)
	}
	return nil
}

func (b *EventBus) deliver(event shared.Event, handler shared.EventHandler) {
	defer b.wg.Done()

	b.slots <- struct{}{}
	defer func() { <-b.slots }()

	if err := handler(event); err != nil {
		b.log.Error("event handler failed",
			"event_type", event.EventType(),
			"aggregate_id", event.AggregateID(),
			"error", err,
		)
	}
}

// Close stops accepting events and waits for in-flight handlers.
func (b *EventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closing)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
