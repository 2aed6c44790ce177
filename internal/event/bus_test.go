package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(8, nil)
	defer bus.Shutdown()

	var calls int32
	done := make(chan struct{}, 2)
	h := func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		done <- struct{}{}
		return nil
	}
	bus.Subscribe("user.registered", h)
	bus.Subscribe("user.registered", h)

	bus.Publish(Event{Type: "user.registered", Data: "x"})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not called")
		}
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBus_PublishSetsTimestamp(t *testing.T) {
	bus := NewBus(1, nil)

	got := make(chan Event, 1)
	bus.Subscribe("a", func(ctx context.Context, e Event) error {
		got <- e
		return errors.New("ignored")
	})

	bus.Publish(Event{Type: "a"})
	bus.Shutdown()

	require.Len(t, got, 1)
	e := <-got
	assert.Equal(t, "a", e.Type)
	assert.False(t, e.Timestamp.IsZero())
}

func TestBus_ShutdownDrainsQueue(t *testing.T) {
	bus := NewBus(16, nil)

	var calls int32
	bus.Subscribe("b", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	for i := 0; i < 5; i++ {
		bus.Publish(Event{Type: "b"})
	}
	bus.Shutdown()
	bus.Shutdown()

	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))

	// 关闭后发布不阻塞
	bus.Publish(Event{Type: "b"})
}
