package snapshot

import (
	"sync"
)

// Notifier fans summaries out to subscribers. Sends never block: a subscriber that has
// not drained its previous update misses the new one.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan Summary]struct{}
}

// Subscribe registers a listener and returns its channel and an unsubscribe func.
// Calling the unsubscribe func more than once is safe.
func (n *Notifier) Subscribe() (<-chan Summary, func()) {
	ch := make(chan Summary, 1)
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[chan Summary]struct{})
	}
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, ch)
			close(ch)
			n.mu.Unlock()
		})
	}
	return ch, unsub
}

// Publish notifies all listeners (non-blocking).
func (n *Notifier) Publish(s Summary) {
	n.mu.Lock()
	for ch := range n.subs {
		select {
		case ch <- s:
		default:
		}
	}
	n.mu.Unlock()
}
