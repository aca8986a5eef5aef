package eventbus_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/botadmin/pkg/eventbus"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	bus := eventbus.New(nil)
	var got []string

	bus.Subscribe("session-expired", func(e eventbus.Event) { got = append(got, "first:"+e.Message) })
	bus.Subscribe("session-expired", func(e eventbus.Event) { got = append(got, "second:"+e.Message) })
	bus.Subscribe("other", func(eventbus.Event) { got = append(got, "other") })

	bus.Publish(eventbus.Event{Type: "session-expired", Message: "bye"})

	require.Equal(t, []string{"first:bye", "second:bye"}, got)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	bus := eventbus.New(nil)
	require.NotPanics(t, func() {
		bus.Publish(eventbus.Event{Type: "nobody-listens"})
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := eventbus.New(nil)
	calls := 0
	unsubscribe := bus.Subscribe("x", func(eventbus.Event) { calls++ })

	bus.Publish(eventbus.Event{Type: "x"})
	unsubscribe()
	unsubscribe()
	bus.Publish(eventbus.Event{Type: "x"})

	require.Equal(t, 1, calls)
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	bus := eventbus.New(nil)
	delivered := false

	bus.Subscribe("x", func(eventbus.Event) { panic("boom") })
	bus.Subscribe("x", func(eventbus.Event) { delivered = true })

	require.NotPanics(t, func() { bus.Publish(eventbus.Event{Type: "x"}) })
	require.True(t, delivered)
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	var got []eventbus.Event
	h := eventbus.DeduplicateWithClock(func(e eventbus.Event) { got = append(got, e) }, 3*time.Second, clock)

	expired := eventbus.Event{Type: "session-expired", Message: "Your session has expired"}

	h(expired)
	now = now.Add(time.Second)
	h(expired)
	h(eventbus.Event{Type: "session-expired", Message: "different"})
	now = now.Add(2 * time.Second)
	h(expired)

	require.Equal(t, []eventbus.Event{
		expired,
		{Type: "session-expired", Message: "different"},
		expired,
	}, got)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var bus eventbus.Bus = eventbus.Nop{}
	unsubscribe := bus.Subscribe("x", func(eventbus.Event) { t.Fatal("unexpected delivery") })
	bus.Publish(eventbus.Event{Type: "x"})
	unsubscribe()
}
