package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ctx = context.Background()

func SetContext(ctx context.Context) {
	_ctx = ctx
}

var (
	subsMu sync.RWMutex
	subs   = make(map[string][]func(ctx context.Context, T any))
)

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	topic := fmt.Sprintf("%T", *new(T))

	subsMu.Lock()
	defer subsMu.Unlock()
	subs[topic] = append(subs[topic], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

func Publish[T any](event T) {
	subsMu.RLock()
	fns := subs[fmt.Sprintf("%T", event)]
	subsMu.RUnlock()

	for _, fn := range fns {
		fn(_ctx, event)
	}
}

// SubscriberBuffer is how many events a slow subscriber may fall behind
// before events are dropped for it.
const SubscriberBuffer = 8

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		mu:   sync.Mutex{},
		subs: make(map[*chan T]struct{}),
	}
}

// Hub fans events out to subscribers and remembers the latest one. A
// broadcast never blocks on a slow subscriber.
type Hub[T any] struct {
	mu        sync.Mutex
	subs      map[*chan T]struct{}
	latest    T
	hasLatest bool
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = event
	h.hasLatest = true

	for sub := range h.subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case *sub <- event:
		default:
			slog.Debug("Dropping event for slow subscriber", "package", "bus", "type", fmt.Sprintf("%T", event))
		}
	}

	return nil
}

// Register makes the hub receive every Publish of T.
func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

// Latest returns the last broadcast event.
func (h *Hub[T]) Latest() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

// Subscribe returns a channel receiving every event from now on, starting
// with the latest one. The returned function unsubscribes.
func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, SubscriberBuffer)
	if h.hasLatest {
		c <- h.latest
	}

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
