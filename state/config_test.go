package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/reactive-context/observability"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "store" || cfg.Observer != "noop" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.EagerSubscribe || cfg.Deferred {
		t.Fatalf("expected lazy, active defaults: %+v", cfg)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Name: "colors", Deferred: true})

	if cfg.Name != "colors" || !cfg.Deferred || cfg.Observer != "noop" {
		t.Fatalf("unexpected merged config: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	data := []byte(`{"name": "colors", "eager_subscribe": true, "observer": "slog"}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.Name != "colors" || !cfg.EagerSubscribe || cfg.Observer != "slog" || cfg.Deferred {
		t.Fatalf("unexpected loaded config: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWithConfig(t *testing.T) {
	store := NewValue(1, WithConfig(Config{Name: "counter", Deferred: true, EagerSubscribe: true}))
	if store.Name() != "counter" {
		t.Fatalf("expected configured name, got %q", store.Name())
	}
	if store.Active() {
		t.Fatalf("expected deferred store to start inactive")
	}
	calls := 0
	store.Subscribe(func(View[int, int]) { calls++ }, nil)
	if calls != 1 {
		t.Fatalf("expected eager subscribe from config, got %d", calls)
	}
}

func TestResolveSettings_UnknownObserverFallsBack(t *testing.T) {
	s := resolveSettings([]Option{WithConfig(Config{Observer: "does-not-exist"})})
	if _, ok := s.observer.(observability.NoOpObserver); !ok {
		t.Fatalf("expected NoOpObserver fallback, got %T", s.observer)
	}
}
