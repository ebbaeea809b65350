package stream

import "sync"

// Group collects subscriptions owned by one view so they can be released
// together when the view is torn down.
type Group struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// Add takes ownership of s. Adding to a closed Group releases s immediately.
func (g *Group) Add(s *Subscription) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		s.Unsubscribe()
		return
	}
	g.subs = append(g.subs, s)
	g.mu.Unlock()
}

// Len returns the number of subscriptions still held.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Close releases every held subscription. Later calls are no-ops.
func (g *Group) Close() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.closed = true
	g.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}
