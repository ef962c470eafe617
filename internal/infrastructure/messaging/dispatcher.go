package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/retry"
)

// Dispatcher routes bus events to named handlers. Each delivery gets a
// timeout, panic recovery and a short retry so a transient Redis hiccup does
// not lose a cache invalidation.
type Dispatcher struct {
	bus      *EventBus
	registry map[shared.EventType][]registration
	retrier  *retry.Retrier
	timeout  time.Duration
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

type registration struct {
	name    string
	handler shared.EventHandler
}

// DispatcherConfig tunes delivery behaviour. Zero values get defaults.
type DispatcherConfig struct {
	// HandlerTimeout bounds one handler invocation (default 10s).
	HandlerTimeout time.Duration

	// MaxAttempts is the delivery attempt limit per handler (default 3).
	MaxAttempts int

	Logger *slog.Logger
}

// NewDispatcher creates a dispatcher on top of the bus.
func NewDispatcher(bus *EventBus, config DispatcherConfig) *Dispatcher {
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = 10 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		bus:      bus,
		registry: make(map[shared.EventType][]registration),
		retrier: retry.New(
			retry.WithMaxAttempts(config.MaxAttempts),
			retry.WithInitialDelay(200*time.Millisecond),
			retry.WithRetryIf(func(error) bool { return true }),
		),
		timeout: config.HandlerTimeout,
		log:     config.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register binds a named handler to an event type. The name only appears in
// logs.
func (d *Dispatcher) Register(eventType shared.EventType, name string, handler shared.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("messaging: nil handler for %q", name)
	}
	d.registry[eventType] = append(d.registry[eventType], registration{name: name, handler: handler})
	return nil
}

// Start hooks the dispatcher into the bus. Register all handlers first;
// registration is not synchronized after Start.
func (d *Dispatcher) Start() error {
	return d.bus.SubscribeAll(d.route)
}

// Stop cancels in-flight retries.
func (d *Dispatcher) Stop() error {
	d.cancel()
	return nil
}

func (d *Dispatcher) route(event shared.Event) error {
	for _, reg := range d.registry[event.EventType()] {
		if err := d.deliver(event, reg); err != nil {
			d.log.Error("dropping event after retries",
				"handler", reg.name,
				"event_type", event.EventType(),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
		}
	}
	return nil
}

func (d *Dispatcher) deliver(event shared.Event, reg registration) error {
	return d.retrier.Do(d.ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- d.invoke(event, reg)
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return fmt.Errorf("handler %q timed out", reg.name)
		}
	})
}

func (d *Dispatcher) invoke(event shared.Event, reg registration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler panicked",
				"handler", reg.name,
				"event_type", event.EventType(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("handler %q panicked: %v", reg.name, r)
		}
	}()
	return reg.handler(event)
}
