// Package gamification derives points, levels, streaks and achievements from
// an append-only event log.
package gamification

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"kidcalc/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys owned by the engine.
const (
	ProgressKey = "calculator-progress"
	EventsKey   = "calculator-events"
)

// KV is the slice of the local key/value store the engine persists through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Engine owns one user's progress and event log. Operations never fail;
// persistence happens only through the explicit Load, Save and
// ResetProgress calls.
type Engine struct {
	kv    KV
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	progress Progress
	events   []Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow sets the engine's time source.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine holding default progress. Call Load to restore the
// persisted state.
func New(kv KV, opts ...Option) *Engine {
	e := &Engine{
		kv:    kv,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.progress = e.defaultProgress()
	return e
}

func (e *Engine) defaultProgress() Progress {
	return Progress{Achievements: []AchievementKey{}, LastActive: stamp(e.now())}
}

// stamp matches the millisecond UTC precision timestamps are persisted with.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Load replaces the in-memory state with the persisted one. Missing or
// corrupt values fall back to defaults and are logged; only store failures
// are returned.
func (e *Engine) Load(ctx context.Context) error {
	logger := observability.LoggerWithTrace(ctx)

	progress := e.defaultProgress()
	raw, ok, err := e.kv.Get(ctx, ProgressKey)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if ok {
		var p Progress
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logger.Warn("discarding corrupt progress", zap.Error(err))
		} else {
			progress = p.normalize()
		}
	}

	var events []Event
	raw, ok, err = e.kv.Get(ctx, EventsKey)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &events); err != nil {
			logger.Warn("discarding corrupt event log", zap.Error(err))
			events = nil
		}
	}

	e.mu.Lock()
	e.progress = progress
	e.events = events
	e.mu.Unlock()

	logger.Debug("progress loaded",
		zap.Int("points", progress.Points),
		zap.Int("level", progress.Level()),
		zap.Int("events", len(events)),
	)
	return nil
}

// Save writes progress and the event log to the store.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	progress, err := json.Marshal(e.progress)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("encode progress: %w", err)
	}
	events := e.events
	if events == nil {
		events = []Event{}
	}
	log, err := json.Marshal(events)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	if err := e.kv.Set(ctx, ProgressKey, string(progress)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := e.kv.Set(ctx, EventsKey, string(log)); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Progress returns a copy of the current progress.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.clone()
}

// Events returns a copy of the event log, oldest first.
func (e *Engine) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.events)
}

// EventCount returns the length of the event log.
func (e *Engine) EventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

// EventsSince returns the events appended after the first n.
func (e *Engine) EventsSince(n int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 || n >= len(e.events) {
		return nil
	}
	return slices.Clone(e.events[n:])
}

// Unlocked reports whether key has been unlocked.
func (e *Engine) Unlocked(key AchievementKey) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.Has(key)
}

// AddPoints records a calculation_performed event worth n points. The very
// first positive award also unlocks FIRST_CALC.
func (e *Engine) AddPoints(n int, description string) {
	if n < 0 {
		observability.Logger.Warn("ignoring negative point award",
			zap.Int("points", n),
			zap.String("description", description),
		)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wasZero := e.progress.Points == 0
	e.progress.Points += n
	e.appendLocked(EventCalculationPerformed, n, description)

	if wasZero && n > 0 && !e.progress.Has(FirstCalc) {
		e.unlockLocked(FirstCalc, "first points awarded")
	}
}

// UnlockAchievement awards key once. It reports whether this call unlocked
// it; repeated and unknown keys are no-ops (unknown keys are logged).
func (e *Engine) UnlockAchievement(key AchievementKey, reason string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unlockLocked(key, reason)
}

func (e *Engine) unlockLocked(key AchievementKey, reason string) bool {
	if e.progress.Has(key) {
		return false
	}
	a, ok := Lookup(key)
	if !ok {
		observability.Logger.Error("unknown achievement",
			zap.String("achievement", string(key)),
			zap.String("reason", reason),
		)
		return false
	}

	e.appendLocked(EventAchievementEarned, a.Points, a.Name+": "+a.Description)
	e.progress.Achievements = append(e.progress.Achievements, key)
	e.progress.Points += a.Points

	observability.Logger.Info("achievement unlocked",
		zap.String("achievement", string(key)),
		zap.Int("points", a.Points),
		zap.Int("level", e.progress.Level()),
	)
	return true
}

// ResetProgress restores defaults, empties the log and purges the persisted
// copies. Purge failures are logged.
func (e *Engine) ResetProgress(ctx context.Context) {
	e.mu.Lock()
	e.progress = e.defaultProgress()
	e.events = nil
	e.mu.Unlock()

	if err := e.kv.Delete(ctx, ProgressKey, EventsKey); err != nil {
		observability.LoggerWithTrace(ctx).Error("purging progress", zap.Error(err))
	}
}

func (e *Engine) appendLocked(t EventType, points int, description string) {
	e.events = append(e.events, Event{
		ID:           e.newID(),
		Type:         t,
		PointsEarned: points,
		Timestamp:    stamp(e.now()),
		Description:  description,
	})
	eventsTotal.WithLabelValues(string(t)).Inc()
}
