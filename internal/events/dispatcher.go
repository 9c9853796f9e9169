package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler)
	// Wait blocks until every handler started so far has returned.
	Wait()
}

// asyncDispatcher runs each handler on its own goroutine. Handler failures
// are logged and never reach the publisher.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	wg        sync.WaitGroup
	logger    *zap.Logger
	timeout   time.Duration
}

// NewAsyncDispatcher creates a dispatcher instance. A zero timeout leaves
// handler contexts without a deadline.
func NewAsyncDispatcher(logger *zap.Logger, timeout time.Duration) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
		timeout:   timeout,
	}
}

// Publish fills in the event id and timestamp and hands the event to every
// subscriber without waiting for them.
func (d *asyncDispatcher) Publish(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	// The request that published the event may finish before the handlers do.
	base := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		d.wg.Add(1)
		go d.run(base, handler, event)
	}
}

func (d *asyncDispatcher) run(ctx context.Context, handler EventHandler, event Event) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Any("panic", r))
		}
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := handler(ctx, event); err != nil {
		d.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

func (d *asyncDispatcher) Wait() {
	d.wg.Wait()
}
