package state

import "github.com/odvcencio/reactive-context/observability"

// Event types emitted by Store.
const (
	EventCreated            observability.EventType = "store.created"
	EventActivated          observability.EventType = "store.activated"
	EventSetAccepted        observability.EventType = "store.set.accepted"
	EventSetRejected        observability.EventType = "store.set.rejected"
	EventSetIgnored         observability.EventType = "store.set.ignored"
	EventDerivationInstall  observability.EventType = "store.derivation.installed"
	EventDerivationFailed   observability.EventType = "store.derivation.failed"
	EventSubscriberAdded    observability.EventType = "store.subscriber.added"
	EventSubscriberRemoved  observability.EventType = "store.subscriber.removed"
	EventSubscriberPruned   observability.EventType = "store.subscriber.pruned"
	EventSubscribersCleared observability.EventType = "store.subscribers.cleared"
)
