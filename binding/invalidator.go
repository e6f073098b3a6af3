package binding

import "sync/atomic"

// Invalidator asks the host to render again, coalescing requests until the
// host reports the render with Done.
type Invalidator struct {
	request func() bool
	pending atomic.Bool
}

// NewInvalidator wires an invalidator to the host's render request. The
// request returns false when it could not be queued.
func NewInvalidator(request func() bool) *Invalidator {
	return &Invalidator{request: request}
}

// Invalidate requests a render unless one is already pending.
func (i *Invalidator) Invalidate() {
	if i == nil || i.request == nil {
		return
	}
	if i.pending.CompareAndSwap(false, true) {
		if !i.request() {
			i.pending.Store(false)
		}
	}
}

// Pending reports whether a render request is outstanding.
func (i *Invalidator) Pending() bool {
	return i != nil && i.pending.Load()
}

// Done tells the invalidator the host finished rendering.
func (i *Invalidator) Done() {
	if i == nil {
		return
	}
	i.pending.Store(false)
}

// Schedule runs fn and requests a render, which makes an Invalidator a
// state.Scheduler for consumers that redraw on change.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}
