// Package session wires the calculator machine, the gamification engine and
// the store together the way an interactive front end drives them: digits
// are debounced, "=" is throttled, every action is scored and a NaN display
// clears itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kidcalc/internal/calculator"
	"kidcalc/internal/gamification"
	"kidcalc/internal/observability"
	"kidcalc/internal/scheduler"
	"kidcalc/internal/storage"

	"go.uber.org/zap"
)

// ErrUnknownAchievement is returned when unlocking a key outside the catalog.
var ErrUnknownAchievement = errors.New("unknown achievement")

const nanDisplay = "NaN"

// Session owns one calculator and its scoring. All mutable state below the
// loop field is confined to the loop goroutine.
type Session struct {
	loop   *scheduler.Loop
	store  *storage.Store
	engine *gamification.Engine
	opts   Options
	subs   *broker

	machine   *calculator.Machine
	digits    *scheduler.Debouncer
	burst     []string
	equals    *scheduler.Throttler
	nanTimer  scheduler.Timer
	nanGen    uint64
	published int
}

// New starts a session on its own loop and restores persisted progress.
// A store that cannot be read leaves the session on defaults.
func New(ctx context.Context, store *storage.Store, clock scheduler.Clock, opts Options) *Session {
	if clock == nil {
		clock = scheduler.RealClock()
	}
	loop := scheduler.NewLoop(clock)

	s := &Session{
		loop:    loop,
		store:   store,
		engine:  gamification.New(store, gamification.WithNow(clock.Now)),
		opts:    opts,
		subs:    newBroker(),
		machine: calculator.NewMachine(),
		digits:  scheduler.NewDebouncer(loop, opts.DigitDebounce),
		equals:  scheduler.NewThrottler(clock, opts.EqualsThrottle),
	}

	if err := s.engine.Load(ctx); err != nil {
		observability.LoggerWithTrace(ctx).Warn("starting with default progress", zap.Error(err))
	}
	s.published = s.engine.EventCount()
	return s
}

// Close stops pending timers, saves progress and stops the loop.
func (s *Session) Close(ctx context.Context) error {
	err := s.loop.Call(ctx, func() {
		s.digits.Cancel()
		s.stopNaNTimer()
		s.persist(ctx)
	})
	s.loop.Close()
	s.subs.closeAll()
	if errors.Is(err, scheduler.ErrClosed) {
		return nil
	}
	return err
}

// Engine exposes the gamification engine for read-only queries.
func (s *Session) Engine() *gamification.Engine { return s.engine }

// Store exposes the underlying store.
func (s *Session) Store() *storage.Store { return s.store }

// Press parses label and applies it. Digits take effect once the debounce
// period has elapsed, so the returned snapshot may not show them yet.
func (s *Session) Press(ctx context.Context, label string) (Snapshot, error) {
	k, err := calculator.ParseKey(label)
	if err != nil {
		return Snapshot{}, err
	}
	return s.PressKey(ctx, k)
}

// PressKey applies k on the loop and returns the state afterwards.
func (s *Session) PressKey(ctx context.Context, k calculator.Key) (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Call(ctx, func() {
		s.press(k)
		snap = s.snapshot()
	})
	return snap, err
}

// State returns the current snapshot.
func (s *Session) State(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.loop.Call(ctx, func() { snap = s.snapshot() })
	return snap, err
}

// Subscribe returns a channel of updates and a function that ends the
// subscription. Slow subscribers miss updates rather than block the loop.
func (s *Session) Subscribe() (<-chan Update, func()) {
	return s.subs.subscribe()
}

func (s *Session) press(k calculator.Key) {
	if k.Kind != calculator.KeyDigit && s.opts.DebounceMode == DebounceBuffered {
		s.settleBurst()
	}

	switch k.Kind {
	case calculator.KeyDigit:
		s.pressDigit(k.Digit)
		return
	case calculator.KeyDot:
		s.machine.Dot()
		s.engine.AddPoints(1, "Added decimal point")
	case calculator.KeyToggleSign:
		s.machine.ToggleSign()
		s.engine.AddPoints(2, "Toggled sign")
	case calculator.KeyPercent:
		s.machine.Percent()
		s.engine.AddPoints(3, "Used percentage function")
	case calculator.KeyOperator:
		s.record(s.machine.Operation(k.Op))
		s.engine.AddPoints(5, fmt.Sprintf("Performed %s operation", k.Op))
		s.engine.IncrementStreak()
	case calculator.KeyEquals:
		if !s.equals.Allow() {
			observability.Logger.Debug("equals throttled")
			return
		}
		ev := s.machine.Equals()
		s.record(ev)
		s.engine.AddPoints(10, "Completed calculation")
		s.engine.IncrementStreak()
		if ev.Performed && ev.Err == nil {
			s.saveHistory(ev)
		}
	case calculator.KeyClear:
		s.machine.Clear()
		s.engine.AddPoints(1, "Cleared display")
	case calculator.KeyAllClear:
		s.machine.AllClear()
		s.engine.AddPoints(2, "Cleared calculator")
	}
	s.afterChange(k.String())
}

func (s *Session) pressDigit(d string) {
	if s.opts.DebounceMode == DebounceBuffered {
		s.burst = append(s.burst, d)
		s.digits.Trigger(s.settleBurst)
		return
	}
	s.digits.Trigger(func() { s.applyDigits(d) })
}

func (s *Session) settleBurst() {
	if len(s.burst) == 0 {
		return
	}
	s.digits.Cancel()
	burst := s.burst
	s.burst = nil
	s.applyDigits(burst...)
}

func (s *Session) applyDigits(digits ...string) {
	for _, d := range digits {
		s.machine.Digit(d)
		s.engine.AddPoints(1, "Entered digit "+d)
	}
	s.afterChange("digit")
}

func (s *Session) record(ev calculator.Evaluation) {
	calculator.RecordEvaluation(context.Background(), "session", ev, 0)
	if ev.Err != nil {
		observability.Logger.Info("calculation failed",
			zap.String("expression", ev.Expression),
			zap.Error(ev.Err),
		)
	}
}

func (s *Session) saveHistory(ev calculator.Evaluation) {
	ctx := context.Background()
	if _, err := s.store.SaveCalculation(ctx, ev.Expression, ev.Result); err != nil {
		observability.Logger.Error("saving calculation", zap.String("expression", ev.Expression), zap.Error(err))
	}
}

// afterChange persists progress, re-arms the NaN watcher and notifies
// subscribers.
func (s *Session) afterChange(reason string) {
	s.persist(context.Background())
	s.watchNaN()
	s.publish(reason)
}

func (s *Session) persist(ctx context.Context) {
	if err := s.engine.Save(ctx); err != nil {
		observability.LoggerWithTrace(ctx).Error("saving progress", zap.Error(err))
	}
	if err := s.store.TouchLastActive(ctx); err != nil {
		observability.LoggerWithTrace(ctx).Error("touching last active", zap.Error(err))
	}
}

// watchNaN clears the calculator once a NaN display has stood for the reset
// delay. Any display change before then cancels the clear.
func (s *Session) watchNaN() {
	if s.machine.Display() != nanDisplay {
		s.stopNaNTimer()
		return
	}
	if s.nanTimer != nil {
		return
	}
	gen := s.nanGen
	s.nanTimer = s.loop.AfterFunc(s.opts.NaNReset, func() {
		// A stopped timer may already be queued on the loop.
		if s.nanGen != gen {
			return
		}
		s.nanTimer = nil
		if s.machine.Display() != nanDisplay {
			return
		}
		observability.Logger.Info("clearing NaN display")
		s.machine.AllClear()
		s.publish("reset")
	})
}

func (s *Session) stopNaNTimer() {
	s.nanGen++
	if s.nanTimer != nil {
		s.nanTimer.Stop()
		s.nanTimer = nil
	}
}

func (s *Session) publish(reason string) {
	events := s.engine.EventsSince(s.published)
	s.published = s.engine.EventCount()
	s.subs.publish(Update{
		Reason: reason,
		State:  s.snapshot(),
		Events: events,
	})
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Calculator:    viewOf(s.machine.State()),
		Progress:      s.engine.Progress(),
		DigitsPending: s.digits.Pending(),
		At:            s.loop.Clock().Now(),
	}
}

// UnlockAchievement unlocks key and reports whether this call did so.
func (s *Session) UnlockAchievement(ctx context.Context, key gamification.AchievementKey) (bool, error) {
	if _, ok := gamification.Lookup(key); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownAchievement, key)
	}
	var unlocked bool
	err := s.loop.Call(ctx, func() {
		unlocked = s.engine.UnlockAchievement(key, "unlocked on request")
		if unlocked {
			s.afterChange("achievement")
		}
	})
	return unlocked, err
}

// ResetStreak sets the streak to zero.
func (s *Session) ResetStreak(ctx context.Context) error {
	return s.loop.Call(ctx, func() {
		s.engine.ResetStreak()
		s.afterChange("streak")
	})
}

// ResetProgress clears progress and the event log, including stored copies.
func (s *Session) ResetProgress(ctx context.Context) error {
	return s.loop.Call(ctx, func() {
		s.engine.ResetProgress(ctx)
		s.published = 0
		s.publish("progress")
	})
}

// EvaluateAndStore evaluates expr and records it in history on success.
// Blank input is a syntax error.
func (s *Session) EvaluateAndStore(ctx context.Context, expr string) (storage.Calculation, error) {
	if err := calculator.Validate(expr); err != nil {
		return storage.Calculation{}, err
	}
	start := time.Now()
	v, err := calculator.Evaluate(expr)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	calculator.RecordEvaluation(ctx, "evaluate", calculator.Evaluation{
		Performed: true, Expression: expr, Result: v, Err: err,
	}, elapsed)
	if err != nil {
		return storage.Calculation{}, err
	}
	return s.store.SaveCalculation(ctx, expr, v)
}
