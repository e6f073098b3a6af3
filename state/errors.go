package state

import "fmt"

// DerivationError wraps a Deriver failure. Subscription is empty when the
// failure came from Get rather than a notification pass.
type DerivationError struct {
	Subscription SubscriptionID
	Err          error
}

func (e *DerivationError) Error() string {
	if e.Subscription.IsZero() {
		return fmt.Sprintf("derive state: %v", e.Err)
	}
	return fmt.Sprintf("derive state for subscription %s: %v", e.Subscription, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}
