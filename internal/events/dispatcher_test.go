package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 0)

	var mu sync.Mutex
	var received []Event
	d.Subscribe(EventJobHired, func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
		return nil
	})
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		t.Error("unexpected delivery to other event type")
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventJobHired, ActorID: "f-1"})
	d.Wait()

	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, "f-1", received[0].ActorID)
}

func TestDispatcherIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewAsyncDispatcher(zap.New(core), 0)

	var delivered atomic.Int32
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		return errors.New("smtp down")
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventUserRegistered, func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventUserRegistered})
	d.Wait()

	assert.Equal(t, int32(1), delivered.Load())
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestDispatcherOutlivesPublisherContext(t *testing.T) {
	d := NewAsyncDispatcher(nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	var ctxErr atomic.Value
	d.Subscribe(EventMessageSent, func(hctx context.Context, _ Event) error {
		cancel()
		if err := hctx.Err(); err != nil {
			ctxErr.Store(err)
		}
		return nil
	})

	d.Publish(ctx, Event{Type: EventMessageSent})
	d.Wait()

	assert.Nil(t, ctxErr.Load())
}
