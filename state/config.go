package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/odvcencio/reactive-context/observability"
)

const defaultStoreName = "store"

// Config holds store construction parameters.
type Config struct {
	Name           string `json:"name,omitempty"`            // Event source name.
	EagerSubscribe bool   `json:"eager_subscribe,omitempty"` // Deliver the current view on Subscribe.
	Deferred       bool   `json:"deferred,omitempty"`        // Ignore writes until Activate.
	Observer       string `json:"observer,omitempty"`        // observability registry name.
}

// DefaultConfig returns an active, lazily-notifying store with events
// discarded.
func DefaultConfig() Config {
	return Config{
		Name:     defaultStoreName,
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.EagerSubscribe {
		c.EagerSubscribe = true
	}
	if source.Deferred {
		c.Deferred = true
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file and merges it over DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

type settings struct {
	cfg      Config
	observer observability.Observer
}

// Option configures a Store.
type Option func(*settings)

// WithConfig merges cfg over the current settings.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg.Merge(&cfg)
	}
}

// WithName sets the event source name.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.cfg.Name = name
		}
	}
}

// WithObserver routes store events to obs, overriding Config.Observer.
func WithObserver(obs observability.Observer) Option {
	return func(s *settings) {
		s.observer = obs
	}
}

// WithEagerSubscribe sets the default for Eager on Subscribe.
func WithEagerSubscribe(eager bool) Option {
	return func(s *settings) {
		s.cfg.EagerSubscribe = eager
	}
}

// WithDeferredActivation starts the store inactive; Set and Update are
// ignored until Activate.
func WithDeferredActivation() Option {
	return func(s *settings) {
		s.cfg.Deferred = true
	}
}

func resolveSettings(opts []Option) settings {
	s := settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.observer == nil {
		obs, err := observability.GetObserver(s.cfg.Observer)
		if err != nil {
			obs = observability.NoOpObserver{}
		}
		s.observer = obs
	}
	return s
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeSettings)

type subscribeSettings struct {
	eager     *bool
	scheduler Scheduler
	ctx       context.Context
}

// Eager overrides the store default for delivering the current view at
// subscribe time.
func Eager(eager bool) SubscribeOption {
	return func(s *subscribeSettings) {
		s.eager = &eager
	}
}

// WithScheduler delivers notifications through scheduler instead of
// calling the listener inline.
func WithScheduler(scheduler Scheduler) SubscribeOption {
	return func(s *subscribeSettings) {
		s.scheduler = scheduler
	}
}

// WithContext ties the subscription to ctx. Once ctx is done the entry is
// treated as dead and pruned after the next notification pass.
func WithContext(ctx context.Context) SubscribeOption {
	return func(s *subscribeSettings) {
		s.ctx = ctx
	}
}
