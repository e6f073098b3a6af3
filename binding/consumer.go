package binding

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/reactive-context/state"
)

// ConsumerProps configures a Consumer.
type ConsumerProps[T, U, D any] struct {
	// Attrs are passed to the store's Deriver for this consumer.
	Attrs D
	// Render turns the view into text. Defaults to fmt.Sprint of Derived.
	Render func(state.View[T, U]) string
	// Width truncates the rendered text to this many cells when positive.
	Width int
	// Scheduler runs re-renders; an *Invalidator redraws after each one.
	// The cached view itself is refreshed synchronously.
	Scheduler state.Scheduler
}

// Consumer renders a provider's state through its own attributes.
type Consumer[T, U, D any] struct {
	provider  *Provider[T, U, D]
	attrs     D
	render    func(state.View[T, U]) string
	width     int
	selection *state.Selection[T, U]
	subs      *state.Subscriptions
	text      string
	mounted   bool
}

// NewConsumer creates a Consumer reading from provider.
func NewConsumer[T, U, D any](provider *Provider[T, U, D], props ConsumerProps[T, U, D]) *Consumer[T, U, D] {
	render := props.Render
	if render == nil {
		render = func(view state.View[T, U]) string {
			return fmt.Sprint(view.Derived)
		}
	}
	return &Consumer[T, U, D]{
		provider: provider,
		attrs:    props.Attrs,
		render:   render,
		width:    props.Width,
		subs:     state.NewSubscriptions(props.Scheduler),
	}
}

// Text returns the last rendered text.
func (c *Consumer[T, U, D]) Text() string {
	return c.text
}

// Measure returns the display width of the rendered text in cells.
func (c *Consumer[T, U, D]) Measure() int {
	return runewidth.StringWidth(c.text)
}

// View returns the cached view, or the zero view when unmounted.
func (c *Consumer[T, U, D]) View() state.View[T, U] {
	return c.selection.Get()
}

// Err returns the Deriver failure from the latest refresh.
func (c *Consumer[T, U, D]) Err() error {
	return c.selection.Err()
}

// Mount starts following the provider's store.
func (c *Consumer[T, U, D]) Mount() {
	if c.mounted || c.provider == nil {
		return
	}
	c.mounted = true
	c.selection = state.Select(c.provider.Store(), c.attrs, nil)
	c.subs.Add(c.selection.Stop)
	c.subs.Observe(c.selection, c.refresh)
	c.refresh()
}

// Unmount stops following the store.
func (c *Consumer[T, U, D]) Unmount() {
	c.mounted = false
	c.subs.Clear()
}

func (c *Consumer[T, U, D]) refresh() {
	if !c.mounted || c.selection == nil {
		return
	}
	c.text = truncate(c.render(c.selection.Get()), c.width)
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
