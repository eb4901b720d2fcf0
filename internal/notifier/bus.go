package notifier

import "sync"

// Handler receives cart events. Handlers run synchronously on the
// publishing goroutine, so within one instance a listener always sees a
// mutation after it has been persisted.
type Handler func(Event)

// Bus is the in-process event channel. Subscribers register once at
// startup; publication fans out in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for every subsequent event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to all handlers synchronously.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}
