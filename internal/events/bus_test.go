package events

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(_ context.Context, e SaveEvent) { got = append(got, "first:"+e.RelPath) })
	bus.Subscribe(func(_ context.Context, e SaveEvent) { got = append(got, "second:"+e.RelPath) })

	bus.Publish(context.Background(), SaveEvent{RelPath: "a.md"})

	want := []string{"first:a.md", "second:a.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Publish() delivered %q, want %q", got, want)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0

	unsubscribe := bus.Subscribe(func(context.Context, SaveEvent) { calls++ })
	if bus.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", bus.Len())
	}

	unsubscribe()
	unsubscribe()
	if bus.Len() != 0 {
		t.Fatalf("Len() after unsubscribe = %d, want 0", bus.Len())
	}

	bus.Publish(context.Background(), SaveEvent{RelPath: "a.md"})
	if calls != 0 {
		t.Errorf("handler called %d times after unsubscribe, want 0", calls)
	}
}

func TestBus_NoHandlers(t *testing.T) {
	bus := NewBus()
	bus.Publish(context.Background(), SaveEvent{RelPath: "a.md"})
}

func TestBus_Concurrent(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsubscribe := bus.Subscribe(func(context.Context, SaveEvent) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			bus.Publish(context.Background(), SaveEvent{RelPath: "a.md"})
			unsubscribe()
		}()
	}
	wg.Wait()

	if bus.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bus.Len())
	}
	if count < 10 {
		t.Errorf("handlers called %d times, want at least 10", count)
	}
}
