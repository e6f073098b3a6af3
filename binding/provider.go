package binding

import (
	"errors"

	"github.com/odvcencio/reactive-context/state"
)

// ProviderProps configures a Provider.
type ProviderProps[T, U, D any] struct {
	// Value, when set, is merged into the store on Mount.
	Value *T
	// Derive, when set, replaces the store's Deriver on Mount.
	Derive state.Deriver[T, U, D]
	// Invalidator is told about every accepted update.
	Invalidator *Invalidator
	Children    []Node
}

// Provider mounts a store into the host tree. Mounting activates the
// store, so writes made before the Provider mounts are ignored when the
// store was created with deferred activation.
type Provider[T, U, D any] struct {
	store       *state.Store[T, U, D]
	value       *T
	derive      state.Deriver[T, U, D]
	invalidator *Invalidator
	children    []Node
	subs        state.Subscriptions
	mounted     bool
	err         error
}

// NewProvider creates a Provider for store.
func NewProvider[T, U, D any](store *state.Store[T, U, D], props ProviderProps[T, U, D]) *Provider[T, U, D] {
	return &Provider[T, U, D]{
		store:       store,
		value:       props.Value,
		derive:      props.Derive,
		invalidator: props.Invalidator,
		children:    props.Children,
	}
}

// Store returns the provided store.
func (p *Provider[T, U, D]) Store() *state.Store[T, U, D] {
	return p.store
}

// Raw returns the state the subtree should render from.
func (p *Provider[T, U, D]) Raw() T {
	return p.store.Raw()
}

// ChildNodes returns the provider's subtree.
func (p *Provider[T, U, D]) ChildNodes() []Node {
	return p.children
}

// Mounted reports whether the provider is mounted.
func (p *Provider[T, U, D]) Mounted() bool {
	return p.mounted
}

// Err returns errors from the last Mount or SetValue.
func (p *Provider[T, U, D]) Err() error {
	return p.err
}

// Mount installs the Derive prop, activates the store and applies the
// Value prop.
func (p *Provider[T, U, D]) Mount() {
	if p.mounted {
		return
	}
	p.mounted = true
	if p.derive != nil {
		p.store.InstallDerivation(p.derive)
	}
	if p.invalidator != nil {
		p.subs.Watch(p.store, p.invalidator.Invalidate)
	}
	errs := []error{p.store.Activate()}
	if p.value != nil {
		_, err := p.store.Set(*p.value)
		errs = append(errs, err)
	}
	p.err = errors.Join(errs...)
}

// Unmount stops forwarding updates to the invalidator. The store keeps its
// state and subscribers.
func (p *Provider[T, U, D]) Unmount() {
	p.mounted = false
	p.subs.Clear()
}

// SetValue replaces the Value prop and, when mounted, merges it into the
// store.
func (p *Provider[T, U, D]) SetValue(value T) error {
	p.value = &value
	if !p.mounted {
		return nil
	}
	_, err := p.store.Set(value)
	p.err = err
	return err
}

// SetDerivation replaces the Derive prop. Consumers see it on their next
// refresh; nobody is notified now.
func (p *Provider[T, U, D]) SetDerivation(derive state.Deriver[T, U, D]) {
	p.derive = derive
	if p.mounted {
		p.store.InstallDerivation(derive)
	}
}
