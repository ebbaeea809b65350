// Package stream provides replaying value streams with explicit subscription
// lifetimes. A Value always has a current value; new subscribers receive it
// immediately, then every later change in subscription order.
package stream

import (
	"sync"
	"sync/atomic"
)

// Value holds a current value of type T and fans changes out to subscribers.
//
// Delivery happens synchronously on the goroutine that calls Set or Subscribe.
// The internal lock is released before callbacks run, so a callback may call
// Set or Subscribe on the same Value. Delivery rounds never overlap: a Set made
// while a round is running only records the value, and the running round is
// followed by one more round carrying the latest value. Every subscriber's last
// delivery therefore equals Get once the outermost Set returns.
type Value[T any] struct {
	mu         sync.Mutex
	current    T
	subs       []subscriber[T]
	nextID     uint64
	delivering bool
	dirty      bool // current changed during the running round
}

type subscriber[T any] struct {
	handle *Subscription
	fn     func(T)
}

// Subscription is a handle to a registered callback.
type Subscription struct {
	id       uint64
	released atomic.Bool
	cancel   func(id uint64)
}

// NewValue creates a Value seeded with initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies every current subscriber in
// subscription order before returning.
func (v *Value[T]) Set(next T) {
	v.Update(func(T) T { return next })
}

// Update applies fn to the current value under the lock and publishes the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.current = fn(v.current)
	if v.delivering {
		v.dirty = true
		v.mu.Unlock()
		return
	}
	v.delivering = true
	v.mu.Unlock()

	finished := false
	defer func() {
		// A panicking callback must not leave the Value stuck in delivery.
		if !finished {
			v.mu.Lock()
			v.delivering = false
			v.dirty = false
			v.mu.Unlock()
		}
	}()

	for {
		v.mu.Lock()
		next := v.current
		v.dirty = false
		subs := make([]subscriber[T], len(v.subs))
		copy(subs, v.subs)
		v.mu.Unlock()

		for _, s := range subs {
			// A callback earlier in the list may have released a later one.
			if s.handle.released.Load() {
				continue
			}
			s.fn(next)
		}

		// Checking dirty and leaving delivery happen under one lock, so a
		// concurrent Set is either seen here or starts its own round.
		v.mu.Lock()
		if !v.dirty {
			v.delivering = false
			finished = true
			v.mu.Unlock()
			return
		}
		v.mu.Unlock()
	}
}

// Subscribe registers fn, immediately replays the current value to it and
// returns a Subscription that stops further deliveries when released.
func (v *Value[T]) Subscribe(fn func(T)) *Subscription {
	v.mu.Lock()
	v.nextID++
	handle := &Subscription{id: v.nextID, cancel: v.remove}
	v.subs = append(v.subs, subscriber[T]{handle: handle, fn: fn})
	current := v.current
	v.mu.Unlock()

	fn(current)
	return handle
}

// SubscriberCount returns the number of live subscriptions.
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s.handle.id == id {
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}

// Unsubscribe stops deliveries to the callback. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	if s.released.Swap(true) {
		return
	}
	s.cancel(s.id)
}
