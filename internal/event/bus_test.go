package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	ch, unsubscribe := bus.Subscribe()
	t.Cleanup(unsubscribe)

	published := New(TypeUserRegistered, "payload", "actor-1")
	bus.Publish(published)

	select {
	case got := <-ch:
		require.Equal(t, published.ID, got.ID)
		require.Equal(t, TypeUserRegistered, got.Type)
		require.Equal(t, "actor-1", got.ActorID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, unsubscribe := bus.Subscribe()
	unsubscribe()

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(New(TypeEventCreated, nil, ""))
}

func TestBusDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewBus()

	ch, unsubscribe := bus.Subscribe()
	t.Cleanup(unsubscribe)

	// Overfill the buffer; the publisher must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			bus.Publish(New(TypeEventCreated, i, ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}

	require.NotEmpty(t, ch)
}
