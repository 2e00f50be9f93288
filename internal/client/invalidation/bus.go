// Package invalidation carries cache invalidation signals between the
// client core and whatever renders profile data. Instead of refetching on
// every render, consumers subscribe to a logical resource key and refetch
// when it is invalidated.
package invalidation

import "sync"

// Well-known resource keys
const (
	KeyMe    = "me"
	KeyGuest = "guest"
)

// Bus is a signal fan-out keyed by resource name. Sends never block: a
// subscriber that has not drained its channel still holds one pending
// signal, which is enough to trigger a refetch.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan struct{}
}

// NewBus creates an empty signal bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]chan struct{}),
	}
}

// Subscribe returns a channel that receives a signal each time key is
// invalidated. The channel holds at most one pending signal.
func (b *Bus) Subscribe(key string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[key] = append(b.subs[key], ch)
	b.mu.Unlock()

	return ch
}

// Invalidate signals every subscriber of key
func (b *Bus) Invalidate(key string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
