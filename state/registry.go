package state

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// SubscriptionID identifies one subscription. IDs are opaque and sort in
// creation order.
type SubscriptionID ulid.ULID

func newSubscriptionID() SubscriptionID {
	return SubscriptionID(ulid.Make())
}

func (id SubscriptionID) String() string {
	return ulid.ULID(id).String()
}

// IsZero reports whether id is the zero value.
func (id SubscriptionID) IsZero() bool {
	return id == SubscriptionID{}
}

// Listener receives the view computed for its subscription.
type Listener[T, U any] func(View[T, U])

type subscription[T, U, D any] struct {
	id        SubscriptionID
	fn        Listener[T, U]
	attrs     D
	ctx       context.Context
	scheduler Scheduler
	live      atomic.Bool
}

// callable reports whether the listener can still be invoked. A nil
// listener or a finished lifetime context makes the entry dead.
func (s *subscription[T, U, D]) callable() bool {
	if s.fn == nil {
		return false
	}
	return s.ctx == nil || s.ctx.Err() == nil
}

func (s *subscription[T, U, D]) deliver(view View[T, U]) {
	if s.scheduler == nil {
		s.fn(view)
		return
	}
	s.scheduler.Schedule(func() {
		if s.live.Load() {
			s.fn(view)
		}
	})
}

// registry keeps subscriptions in insertion order. It is not safe for
// concurrent use; Store guards it with its mutex.
type registry[T, U, D any] struct {
	entries map[SubscriptionID]*subscription[T, U, D]
	order   []SubscriptionID
}

func newRegistry[T, U, D any]() *registry[T, U, D] {
	return &registry[T, U, D]{entries: make(map[SubscriptionID]*subscription[T, U, D])}
}

func (r *registry[T, U, D]) add(sub *subscription[T, U, D]) {
	sub.id = newSubscriptionID()
	sub.live.Store(true)
	r.entries[sub.id] = sub
	r.order = append(r.order, sub.id)
}

// remove deletes id and reports whether it was present. Unknown ids are a
// no-op.
func (r *registry[T, U, D]) remove(id SubscriptionID) bool {
	sub, ok := r.entries[id]
	if !ok {
		return false
	}
	sub.live.Store(false)
	delete(r.entries, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

func (r *registry[T, U, D]) removeAll() int {
	n := len(r.entries)
	for _, sub := range r.entries {
		sub.live.Store(false)
	}
	clear(r.entries)
	r.order = r.order[:0]
	return n
}

// snapshot returns the live entries in insertion order. The slice is owned
// by the caller, so a notification pass can iterate it while the registry
// changes underneath.
func (r *registry[T, U, D]) snapshot() []*subscription[T, U, D] {
	if len(r.order) == 0 {
		return nil
	}
	subs := make([]*subscription[T, U, D], 0, len(r.order))
	for _, id := range r.order {
		subs = append(subs, r.entries[id])
	}
	return subs
}

func (r *registry[T, U, D]) len() int {
	return len(r.entries)
}
