package gamification

import "time"

// IncrementStreak counts today's activity. The streak grows when today is
// the calendar day right after LastActive within the same month and year,
// or when it is zero; any other day restarts it at 1. Reaching exactly 7
// unlocks PERFECT_STREAK.
func (e *Engine) IncrementStreak() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if isNextDay(e.progress.LastActive, now) || e.progress.Streak == 0 {
		e.progress.Streak++
	} else {
		e.progress.Streak = 1
	}
	e.progress.LastActive = stamp(now)

	if e.progress.Streak == 7 && !e.progress.Has(PerfectStreak) {
		e.unlockLocked(PerfectStreak, "7-day streak")
	}
}

// ResetStreak sets the streak to zero.
func (e *Engine) ResetStreak() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress.Streak = 0
}

// isNextDay compares calendar fields only, so the last day of a month
// followed by the first of the next does not count.
func isNextDay(last, now time.Time) bool {
	if last.IsZero() {
		return false
	}
	last = last.In(now.Location())
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	return nd == ld+1 && nm == lm && ny == ly
}
