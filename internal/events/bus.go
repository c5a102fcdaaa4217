package events

import (
	"context"
	"sync"
)

// SaveEvent is published by the host after it saved a note.
type SaveEvent struct {
	RelPath string // Vault-relative path of the saved note
}

// Handler receives save events.
type Handler func(ctx context.Context, event SaveEvent)

// Bus delivers save events to subscribed handlers. Handlers run synchronously
// on the publishing goroutine, in subscription order. It is safe for
// concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it again.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers event to every handler subscribed at the time of the call.
func (b *Bus) Publish(ctx context.Context, event SaveEvent) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event)
	}
}

// Len returns the number of subscribed handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
