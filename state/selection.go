package state

import "sync"

// Selection caches the view one consumer derives from a store with fixed
// attributes. It refreshes on every accepted update and tells its own
// watchers only when the derived value changed.
type Selection[T, U any] struct {
	mu       sync.Mutex
	view     View[T, U]
	err      error
	equal    EqualFunc[U]
	unsub    func()
	watchers map[int]watcher
	next     int
}

// Select derives the current view for attrs and keeps it current. If
// scheduler is non-nil refreshes run through it.
func Select[T, U, D any](store *Store[T, U, D], attrs D, scheduler Scheduler) *Selection[T, U] {
	sel := &Selection[T, U]{equal: EqualDeep[U]}
	if store == nil {
		return sel
	}
	refresh := func() {
		sel.apply(store.Get(attrs))
	}
	sel.view, sel.err = store.Get(attrs)
	sel.unsub = store.WatchWithScheduler(scheduler, refresh)
	return sel
}

// SetEqualFunc configures the check that decides whether a refreshed
// derived value is new. nil restores EqualDeep.
func (s *Selection[T, U]) SetEqualFunc(fn EqualFunc[U]) {
	if s == nil {
		return
	}
	if fn == nil {
		fn = EqualDeep[U]
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the cached view.
func (s *Selection[T, U]) Get() View[T, U] {
	if s == nil {
		return View[T, U]{}
	}
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()
	return view
}

// Err returns the Deriver failure from the latest refresh, if any. The
// cached view keeps the last successful derivation.
func (s *Selection[T, U]) Err() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	return err
}

// Watch registers fn to run when the derived value changes.
func (s *Selection[T, U]) Watch(fn func()) func() {
	return s.WatchWithScheduler(nil, fn)
}

// WatchWithScheduler registers a watcher using a scheduler.
// If scheduler is nil, fn runs synchronously.
func (s *Selection[T, U]) WatchWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
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

// Stop detaches the selection from its store.
func (s *Selection[T, U]) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Selection[T, U]) apply(view View[T, U], err error) {
	s.mu.Lock()
	changed := false
	switch {
	case err != nil:
		changed = s.err == nil
		s.err = err
	case s.err != nil || !s.equal(s.view.Derived, view.Derived):
		changed = true
		s.view, s.err = view, nil
	default:
		s.view = view
	}
	var watchers []watcher
	if changed {
		watchers = make([]watcher, 0, len(s.watchers))
		for _, w := range s.watchers {
			watchers = append(watchers, w)
		}
	}
	s.mu.Unlock()
	notifyWatchers(watchers)
}
