package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrUnknownObserver is returned by GetObserver for unregistered names.
var ErrUnknownObserver = errors.New("unknown observer")

// Named observers a store config can refer to.
var (
	mu        sync.RWMutex
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
)

// GetObserver returns the observer registered under name. "noop" and
// "slog" are present unless replaced.
func GetObserver(name string) (Observer, error) {
	mu.RLock()
	obs, ok := observers[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObserver, name)
	}
	return obs, nil
}

// RegisterObserver makes obs available to store configs under name,
// replacing any observer already there.
func RegisterObserver(name string, obs Observer) {
	mu.Lock()
	observers[name] = obs
	mu.Unlock()
}
