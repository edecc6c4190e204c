package state

import (
	"context"
	"sync"
)

// Change describes one rewritten collection.
type Change struct {
	Namespace  string
	Collection Collection
}

// Notifier fans state changes out to subscribers, synchronously and in subscription order.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(context.Context, Change)
	ids  []int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(context.Context, Change))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(context.Context, Change)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = fn
	n.ids = append(n.ids, id)

	var once sync.Once

	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			delete(n.subs, id)
			for i, existing := range n.ids {
				if existing == id {
					n.ids = append(n.ids[:i], n.ids[i+1:]...)

					break
				}
			}
		})
	}
}

// Notify delivers change to every current subscriber.
func (n *Notifier) Notify(ctx context.Context, change Change) {
	n.mu.RLock()
	fns := make([]func(context.Context, Change), 0, len(n.ids))
	for _, id := range n.ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(ctx, change)
	}
}
