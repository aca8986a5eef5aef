// Package eventbus is a small in-process publish/subscribe channel used to
// surface session notifications to whatever presentation layer is attached.
package eventbus

import (
	"log/slog"
	"sync"
	"time"
)

// Event is a fire-and-forget notification. Message is optional.
type Event struct {
	Type    string
	Message string
}

// Handler receives published events.
type Handler func(Event)

// Bus is the publish/subscribe port.
type Bus interface {
	// Publish delivers e to every current subscriber of e.Type.
	Publish(e Event)
	// Subscribe registers h for eventType and returns a function that removes it.
	Subscribe(eventType string, h Handler) (unsubscribe func())
}

type subscription struct {
	id      uint64
	handler Handler
}

// Local is an in-process Bus. Handlers run synchronously on the publishing
// goroutine, in subscription order.
type Local struct {
	logger *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

var _ Bus = (*Local)(nil)

// New creates an in-process bus. A nil logger discards panic reports.
func New(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Local{
		logger: logger,
		subs:   make(map[string][]subscription),
	}
}

func (b *Local) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type]))
	for _, s := range b.subs[e.Type] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Local) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_type", e.Type,
				"panic", r,
			)
		}
	}()
	h(e)
}

func (b *Local) Subscribe(eventType string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, id) })
	}
}

func (b *Local) remove(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[eventType]) == 0 {
		delete(b.subs, eventType)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Publish(Event)                    {}
func (Nop) Subscribe(string, Handler) func() { return func() {} }

// Deduplicate wraps h so that an event identical in type and message to one
// delivered less than window ago is dropped.
func Deduplicate(h Handler, window time.Duration) Handler {
	return DeduplicateWithClock(h, window, time.Now)
}

// DeduplicateWithClock is Deduplicate with an injectable clock.
func DeduplicateWithClock(h Handler, window time.Duration, now func() time.Time) Handler {
	var (
		mu   sync.Mutex
		seen = make(map[Event]time.Time)
	)

	return func(e Event) {
		t := now()

		mu.Lock()
		for k, at := range seen {
			if t.Sub(at) >= window {
				delete(seen, k)
			}
		}
		if _, dup := seen[e]; dup {
			mu.Unlock()
			return
		}
		seen[e] = t
		mu.Unlock()

		h(e)
	}
}
