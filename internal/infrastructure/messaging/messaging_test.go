package messaging

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() shared.Event {
	return shared.NewEntityChangedEvent(
		shared.EventPartnerCreated, "p-1", "partner", "a-1", "Kyoto University")
}

func TestEventBus_FansOutToTypedAndGlobalSubscribers(t *testing.T) {
	bus := NewEventBus(2, quietLogger())
	defer bus.Close()

	var mu sync.Mutex
	var got []string
	record := func(label string) shared.EventHandler {
		return func(shared.Event) error {
			mu.Lock()
			got = append(got, label)
			mu.Unlock()
			return nil
		}
	}

	require.NoError(t, bus.Subscribe(shared.EventPartnerCreated, record("typed")))
	require.NoError(t, bus.Subscribe(shared.EventEventCreated, record("other-type")))
	require.NoError(t, bus.SubscribeAll(record("global")))

	require.NoError(t, bus.Publish(testEvent()))
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"typed", "global"}, got)
}

func TestEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := NewEventBus(2, quietLogger())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(testEvent()), ErrBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), ErrBusClosed)
}

func TestDispatcher_RoutesByEventType(t *testing.T) {
	bus := NewEventBus(2, quietLogger())
	defer bus.Close()

	d := NewDispatcher(bus, DispatcherConfig{Logger: quietLogger()})
	defer d.Stop()

	var mu sync.Mutex
	hits := map[string]int{}
	count := func(name string) shared.EventHandler {
		return func(shared.Event) error {
			mu.Lock()
			hits[name]++
			mu.Unlock()
			return nil
		}
	}

	require.NoError(t, d.Register(shared.EventPartnerCreated, "feed", count("feed")))
	require.NoError(t, d.Register(shared.EventEventDeleted, "unrelated", count("unrelated")))
	require.NoError(t, d.Start())

	require.NoError(t, bus.Publish(testEvent()))
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits["feed"])
	assert.Zero(t, hits["unrelated"])
}

func TestDispatcher_RetriesTransientHandlerFailure(t *testing.T) {
	bus := NewEventBus(2, quietLogger())
	defer bus.Close()

	d := NewDispatcher(bus, DispatcherConfig{Logger: quietLogger(), MaxAttempts: 3})
	defer d.Stop()

	var mu sync.Mutex
	calls := 0
	require.NoError(t, d.Register(shared.EventPartnerCreated, "flaky", func(shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}))
	require.NoError(t, d.Start())

	require.NoError(t, bus.Publish(testEvent()))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestDispatcher_RecoversPanickingHandler(t *testing.T) {
	bus := NewEventBus(2, quietLogger())
	defer bus.Close()

	d := NewDispatcher(bus, DispatcherConfig{Logger: quietLogger(), MaxAttempts: 1})
	defer d.Stop()

	var mu sync.Mutex
	survived := false
	require.NoError(t, d.Register(shared.EventPartnerCreated, "explosive", func(shared.Event) error {
		panic("boom")
	}))
	require.NoError(t, d.Register(shared.EventPartnerCreated, "steady", func(shared.Event) error {
		mu.Lock()
		survived = true
		mu.Unlock()
		return nil
	}))
	require.NoError(t, d.Start())

	require.NoError(t, bus.Publish(testEvent()))
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, survived)
}
