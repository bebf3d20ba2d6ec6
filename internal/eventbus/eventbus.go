// Package eventbus implements the process-wide, lossy, multi-subscriber
// event broadcaster. Publish never blocks a producer on a slow subscriber;
// a subscriber's own channel buffer is the only thing it can ever stall.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Event is one broadcast item: a named event with a JSON-able payload.
type Event struct {
	Name    string
	Payload any
}

const subscriberBuffer = 256

// Bus fans out Events to any number of subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Publish broadcasts an event to every current subscriber. A subscriber
// whose buffer is full has the event dropped for it only; other subscribers
// are unaffected and the call never blocks.
func (b *Bus) Publish(name string, payload any) {
	ev := Event{Name: name, Payload: payload}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("eventbus: dropping event for slow subscriber", "event", name, "subscriber", id)
		}
	}
}

// Subscribe registers a new subscriber and returns a channel of Events and
// an unsubscribe function. The channel is closed once unsubscribe runs or
// ctx is cancelled, whichever comes first; callers must keep draining it
// until then to avoid dropped events being attributed to them forever.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			unsub()
		}()
	}
	return ch, unsub
}

// SubscriberCount reports the current number of live subscribers. Intended
// for diagnostics/tests, not for flow control.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
