package state

import "sync"

// Watchable emits payload-less change notifications. Store and Selection
// implement it, along with WatchWithScheduler.
type Watchable interface {
	Watch(fn func()) func()
}

var (
	_ Watchable = (*Store[int, int, Attributes])(nil)
	_ Watchable = (*Selection[int, int])(nil)
)

// Subscriptions collects unsubscribe funcs so a consumer can drop all of
// them at once when it is unmounted.
type Subscriptions struct {
	mu     sync.Mutex
	unsubs []func()
	sched  Scheduler
}

// NewSubscriptions creates a Subscriptions with a default scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// Scheduler returns the default scheduler used by Observe.
func (s *Subscriptions) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	scheduler := s.sched
	s.mu.Unlock()
	return scheduler
}

// Add tracks an unsubscribe func.
func (s *Subscriptions) Add(unsub func()) {
	if s == nil || unsub == nil {
		return
	}
	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
}

// Watch registers fn on w synchronously and tracks the unsubscribe.
func (s *Subscriptions) Watch(w Watchable, fn func()) {
	s.WatchWithScheduler(w, nil, fn)
}

// Observe registers fn on w using the default scheduler.
func (s *Subscriptions) Observe(w Watchable, fn func()) {
	if s == nil {
		return
	}
	s.WatchWithScheduler(w, s.Scheduler(), fn)
}

// WatchWithScheduler registers fn on w through scheduler when w supports
// one, and tracks the unsubscribe.
func (s *Subscriptions) WatchWithScheduler(w Watchable, scheduler Scheduler, fn func()) {
	if s == nil || w == nil || fn == nil {
		return
	}
	var unsub func()
	if scheduler == nil {
		unsub = w.Watch(fn)
	} else if sched, ok := w.(interface {
		WatchWithScheduler(Scheduler, func()) func()
	}); ok {
		unsub = sched.WatchWithScheduler(scheduler, fn)
	} else {
		unsub = w.Watch(fn)
	}
	s.Add(unsub)
}

// Clear unsubscribes everything tracked so far.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
}
