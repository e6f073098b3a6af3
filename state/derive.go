package state

// Deriver projects the raw state into a consumer's view using that
// consumer's attributes. It must not mutate state or attrs.
type Deriver[T, U, D any] func(state T, attrs D) (U, error)

// View is what reads and notifications deliver: the raw state together
// with the derived state computed for one set of attributes. Raw is the
// store's own value, not a copy.
type View[T, U any] struct {
	Raw     T
	Derived U
	// Decorated reports whether a Deriver produced Derived. Without one,
	// Derived is Raw when T is assignable to U and the zero U otherwise.
	Decorated bool
}

func decorate[T, U, D any](derive Deriver[T, U, D], raw T, attrs D) (View[T, U], error) {
	view := View[T, U]{Raw: raw}
	if derive == nil {
		if same, ok := any(raw).(U); ok {
			view.Derived = same
		}
		return view, nil
	}
	derived, err := derive(raw, attrs)
	if err != nil {
		return view, err
	}
	view.Derived = derived
	view.Decorated = true
	return view, nil
}
