// Package state is a reactive state container. A Store owns one raw value,
// accepts merge or replace updates gated by structural equality, and
// notifies each subscriber with a view derived for that subscriber's
// attributes.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/odvcencio/reactive-context/observability"
)

// Attributes is the conventional attribute record for stores that take
// free-form derivation parameters.
type Attributes = map[string]any

type watcher struct {
	fn        func()
	scheduler Scheduler
}

// pass is one committed state waiting to be delivered, together with the
// subscribers, watchers and Deriver current at commit time.
type pass[T, U, D any] struct {
	raw      T
	subs     []*subscription[T, U, D]
	watchers []watcher
	derive   Deriver[T, U, D]
}

// Store holds the raw state T, the active Deriver producing U from T and
// attributes D, and the subscribers to notify on accepted updates.
//
// Notification passes are serialized per store and delivered in commit
// order. Callbacks run outside the store lock, so a listener may call Set;
// the nested update is queued and delivered once the current pass ends. A
// Set that changes nothing ends the recursion; a listener that always
// changes the state loops forever.
//
// Map and slice states are shared, not copied: Raw, Get and every View hand
// out the stored value itself. Treat them as read-only and write through Set
// or Update, otherwise the equality gate and subscribers never see the
// change.
type Store[T, U, D any] struct {
	id       string
	name     string
	observer observability.Observer
	eager    bool

	mu       sync.Mutex
	value    T
	version  uint64
	active   bool
	equal    EqualFunc[T]
	derive   Deriver[T, U, D]
	subs     *registry[T, U, D]
	watchers map[int]watcher
	next     int

	pending    []pass[T, U, D]
	delivering bool
}

// New creates an active store holding initial. derive may be nil, in which
// case views carry the raw state as the derived state when the types allow.
func New[T, U, D any](initial T, derive Deriver[T, U, D], opts ...Option) *Store[T, U, D] {
	cfg := resolveSettings(opts)
	s := &Store[T, U, D]{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     cfg.cfg.Name,
		observer: cfg.observer,
		eager:    cfg.cfg.EagerSubscribe,
		value:    initial,
		active:   !cfg.cfg.Deferred,
		equal:    EqualDeep[T],
		derive:   derive,
		subs:     newRegistry[T, U, D](),
	}
	s.emit(EventCreated, observability.LevelInfo, map[string]any{
		"deferred": cfg.cfg.Deferred,
		"derived":  derive != nil,
	})
	return s
}

// NewValue creates a store without a Deriver whose views derive to the raw
// state itself.
func NewValue[T any](initial T, opts ...Option) *Store[T, T, Attributes] {
	return New[T, T, Attributes](initial, nil, opts...)
}

// ID returns the store instance id.
func (s *Store[T, U, D]) ID() string {
	return s.id
}

// Name returns the store name used as the event source.
func (s *Store[T, U, D]) Name() string {
	return s.name
}

// SetEqualFunc replaces the equality gate. nil restores EqualDeep.
func (s *Store[T, U, D]) SetEqualFunc(fn EqualFunc[T]) {
	if fn == nil {
		fn = EqualDeep[T]
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// InstallDerivation replaces the active Deriver. Nobody is notified; the
// new Deriver applies from the next read or update. nil removes it.
func (s *Store[T, U, D]) InstallDerivation(derive Deriver[T, U, D]) {
	s.mu.Lock()
	s.derive = derive
	s.mu.Unlock()
	s.emit(EventDerivationInstall, observability.LevelVerbose, map[string]any{
		"cleared": derive == nil,
	})
}

// Raw returns the current raw state. A map or slice state is returned by
// reference and must not be modified in place.
func (s *Store[T, U, D]) Raw() T {
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Get returns the raw state and the view derived for attrs. A Deriver
// failure is returned as a *DerivationError. The view shares the stored
// state like Raw does.
func (s *Store[T, U, D]) Get(attrs D) (View[T, U], error) {
	s.mu.Lock()
	raw, derive := s.value, s.derive
	s.mu.Unlock()

	view, err := decorate(derive, raw, attrs)
	if err != nil {
		return view, &DerivationError{Err: err}
	}
	return view, nil
}

// Active reports whether writes are being accepted.
func (s *Store[T, U, D]) Active() bool {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	return active
}

// Activate starts accepting writes on a deferred store and notifies every
// subscriber once with the current state. Later calls do nothing.
func (s *Store[T, U, D]) Activate() error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = true
	return s.enqueueLocked(s.value, EventActivated, observability.LevelInfo)
}

// Set merges value into the state. A map is shallow-merged onto a map state
// of the same type, or of another string-keyed map type whose values it can
// hold; a Mergeable state merges the value itself; anything else replaces
// the state. An absent value keeps the current state. The merged map is a
// new map, so the previous state is never modified.
//
// Set reports whether the state changed. When no other pass is running,
// every subscriber has been notified before Set returns and Deriver
// failures for individual subscribers are joined into the returned error.
// A Set made from a callback, or racing a Set on another goroutine, only
// queues its pass: the goroutine already delivering notifies for it and
// reports its failures. Writes to an inactive store are ignored.
func (s *Store[T, U, D]) Set(value T) (bool, error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		s.emit(EventSetIgnored, observability.LevelVerbose, nil)
		return false, nil
	}
	return s.applyLocked(value)
}

// Update computes the next value from the previous state with fn and
// applies it like Set. If another write lands while fn runs, fn is called
// again with the newer state.
func (s *Store[T, U, D]) Update(fn func(prev T) T) (bool, error) {
	if fn == nil {
		return false, nil
	}
	for {
		s.mu.Lock()
		if !s.active {
			s.mu.Unlock()
			s.emit(EventSetIgnored, observability.LevelVerbose, nil)
			return false, nil
		}
		prev, version := s.value, s.version
		s.mu.Unlock()

		candidate := fn(prev)

		s.mu.Lock()
		if s.version != version {
			s.mu.Unlock()
			continue
		}
		return s.applyLocked(candidate)
	}
}

// applyLocked runs the merge policy and the equality gate, then commits
// and notifies. It must be called with s.mu held and releases it.
func (s *Store[T, U, D]) applyLocked(candidate T) (bool, error) {
	prev := s.value
	next := mergeState(prev, candidate)
	if s.equal(next, prev) {
		s.mu.Unlock()
		s.emit(EventSetRejected, observability.LevelVerbose, nil)
		return false, nil
	}

	s.value = next
	s.version++
	return true, s.enqueueLocked(next, EventSetAccepted, observability.LevelVerbose)
}

// enqueueLocked queues a pass for raw, the state just committed, and emits
// typ. It must be called with s.mu held and releases it. If no pass is
// being delivered, the caller becomes the deliverer and drains the queue in
// commit order, including passes queued by listeners or other writers while
// it runs, and returns their joined Deriver failures.
func (s *Store[T, U, D]) enqueueLocked(raw T, typ observability.EventType, level observability.Level) error {
	subs := s.subs.snapshot()
	s.pending = append(s.pending, pass[T, U, D]{
		raw:      raw,
		subs:     subs,
		watchers: s.copyWatchersLocked(),
		derive:   s.derive,
	})
	draining := !s.delivering
	s.delivering = true
	s.mu.Unlock()

	s.emit(typ, level, map[string]any{
		"subscribers": len(subs),
	})
	if !draining {
		return nil
	}
	return s.drain()
}

func (s *Store[T, U, D]) drain() error {
	done := false
	defer func() {
		if !done {
			// A listener panicked; let the next writer deliver what is left.
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	var errs []error
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
			done = true
			return errors.Join(errs...)
		}
		p := s.pending[0]
		s.pending[0] = pass[T, U, D]{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		notifyWatchers(p.watchers)
		if err := s.notify(p.raw, p.subs, p.derive); err != nil {
			errs = append(errs, err)
		}
	}
}

// Subscribe registers fn to receive the view derived with attrs after
// every accepted update. By default fn first fires on the next change;
// Eager(true) or WithEagerSubscribe also delivers the current view now.
// The returned func removes the subscription and is safe to call more
// than once.
//
// A nil fn is kept until the next notification pass prunes it.
func (s *Store[T, U, D]) Subscribe(fn Listener[T, U], attrs D, opts ...SubscribeOption) func() {
	var cfg subscribeSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	eager := s.eager
	if cfg.eager != nil {
		eager = *cfg.eager
	}

	sub := &subscription[T, U, D]{
		fn:        fn,
		attrs:     attrs,
		ctx:       cfg.ctx,
		scheduler: cfg.scheduler,
	}
	s.mu.Lock()
	s.subs.add(sub)
	raw, derive := s.value, s.derive
	s.mu.Unlock()

	s.emit(EventSubscriberAdded, observability.LevelVerbose, map[string]any{
		"subscription": sub.id.String(),
		"eager":        eager,
	})

	if eager && sub.callable() {
		view, err := decorate(derive, raw, attrs)
		if err != nil {
			s.emitDerivationFailed(sub.id, err)
		} else {
			sub.deliver(view)
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.unsubscribe(sub.id)
		})
	}
}

// RemoveAll drops every subscription.
func (s *Store[T, U, D]) RemoveAll() {
	s.mu.Lock()
	n := s.subs.removeAll()
	s.mu.Unlock()
	s.emit(EventSubscribersCleared, observability.LevelVerbose, map[string]any{
		"count": n,
	})
}

// Len returns the number of registered subscriptions, dead ones included
// until they are pruned.
func (s *Store[T, U, D]) Len() int {
	s.mu.Lock()
	n := s.subs.len()
	s.mu.Unlock()
	return n
}

// Watch registers fn to run after every accepted update, before any
// subscriber. It carries no payload; read Raw or Get from fn.
func (s *Store[T, U, D]) Watch(fn func()) func() {
	return s.WatchWithScheduler(nil, fn)
}

// WatchWithScheduler registers a watcher using a scheduler.
// If scheduler is nil, fn runs synchronously.
func (s *Store[T, U, D]) WatchWithScheduler(scheduler Scheduler, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.watchers == nil {
		s.watchers = make(map[int]watcher)
	}
	id := s.next
	s.next++
	s.watchers[id] = watcher{fn: fn, scheduler: scheduler}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[T, U, D]) unsubscribe(id SubscriptionID) {
	s.mu.Lock()
	removed := s.subs.remove(id)
	s.mu.Unlock()
	if removed {
		s.emit(EventSubscriberRemoved, observability.LevelVerbose, map[string]any{
			"subscription": id.String(),
		})
	}
}

// notify delivers raw to each subscriber in subs. Dead entries are
// collected and pruned after the pass. A Deriver failure skips only the
// affected subscriber.
func (s *Store[T, U, D]) notify(raw T, subs []*subscription[T, U, D], derive Deriver[T, U, D]) error {
	var dead []SubscriptionID
	var errs []error
	for _, sub := range subs {
		if !sub.live.Load() {
			continue
		}
		if !sub.callable() {
			dead = append(dead, sub.id)
			continue
		}
		view, err := decorate(derive, raw, sub.attrs)
		if err != nil {
			s.emitDerivationFailed(sub.id, err)
			errs = append(errs, &DerivationError{Subscription: sub.id, Err: err})
			continue
		}
		sub.deliver(view)
	}
	s.prune(dead)
	return errors.Join(errs...)
}

func (s *Store[T, U, D]) prune(ids []SubscriptionID) {
	if len(ids) == 0 {
		return
	}
	pruned := make([]string, 0, len(ids))
	s.mu.Lock()
	for _, id := range ids {
		if s.subs.remove(id) {
			pruned = append(pruned, id.String())
		}
	}
	s.mu.Unlock()
	if len(pruned) > 0 {
		s.emit(EventSubscriberPruned, observability.LevelVerbose, map[string]any{
			"subscriptions": pruned,
		})
	}
}

func (s *Store[T, U, D]) copyWatchersLocked() []watcher {
	if len(s.watchers) == 0 {
		return nil
	}
	watchers := make([]watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	return watchers
}

func notifyWatchers(watchers []watcher) {
	for _, w := range watchers {
		if w.scheduler == nil {
			w.fn()
			continue
		}
		w.scheduler.Schedule(w.fn)
	}
}

func (s *Store[T, U, D]) emitDerivationFailed(id SubscriptionID, err error) {
	s.emit(EventDerivationFailed, observability.LevelError, map[string]any{
		"subscription": id.String(),
		"error":        err.Error(),
	})
}

func (s *Store[T, U, D]) emit(typ observability.EventType, level observability.Level, data map[string]any) {
	observability.Emit(context.Background(), s.observer, observability.Event{
		Type:    typ,
		Level:   level,
		Store:   s.name,
		StoreID: s.id,
		Data:    data,
	})
}
