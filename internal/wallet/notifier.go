// Package wallet carries the balance-changed notification channel. The
// wallet ledger itself is server-side; the client never caches a balance, it
// only tells interested views to refresh.
package wallet

import "sync"

// Notifier fans balance-changed events out to subscribers
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func())}
}

// Subscribe registers fn to run on every balance change. The returned
// function removes the subscription and is safe to call more than once.
func (n *Notifier) Subscribe(fn func()) (unsubscribe func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// BalanceChanged notifies all subscribers
func (n *Notifier) BalanceChanged() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
