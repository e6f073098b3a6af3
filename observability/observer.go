// Package observability reports store activity to a log or another sink.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity. The values are slog's, so a Level converts
// to slog.Level directly.
type Level int

const (
	// LevelVerbose covers per-write bookkeeping: accepted and rejected sets,
	// subscriber changes, pruning.
	LevelVerbose = Level(slog.LevelDebug)
	// LevelInfo covers a store's life: creation and activation.
	LevelInfo = Level(slog.LevelInfo)
	// LevelError covers Deriver failures.
	LevelError = Level(slog.LevelError)
)

func (l Level) String() string {
	return l.SlogLevel().String()
}

// SlogLevel returns the slog level for l.
func (l Level) SlogLevel() slog.Level {
	return slog.Level(l)
}

// EventType names an event, e.g. "store.set.accepted".
type EventType string

// Event is one thing a store did.
type Event struct {
	Type    EventType
	Level   Level
	Time    time.Time
	Store   string // store name
	StoreID string
	Data    map[string]any
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit stamps event with the current time and hands it to obs. A nil
// observer drops it.
func Emit(ctx context.Context, obs Observer, event Event) {
	if obs == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	obs.OnEvent(ctx, event)
}
