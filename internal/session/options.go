package session

import (
	"fmt"
	"time"
)

// DebounceMode selects how a burst of digit presses is applied.
type DebounceMode string

const (
	// DebounceLatest applies only the last digit of a burst.
	DebounceLatest DebounceMode = "latest"
	// DebounceBuffered applies every digit of a burst, in order, once the
	// burst settles. A non-digit key settles the burst immediately.
	DebounceBuffered DebounceMode = "buffered"
)

// ParseDebounceMode accepts "latest" and "buffered"; empty means latest.
func ParseDebounceMode(s string) (DebounceMode, error) {
	switch DebounceMode(s) {
	case "", DebounceLatest:
		return DebounceLatest, nil
	case DebounceBuffered:
		return DebounceBuffered, nil
	}
	return "", fmt.Errorf("unknown debounce mode %q", s)
}

// Options holds the session's timing policy.
type Options struct {
	DigitDebounce  time.Duration
	EqualsThrottle time.Duration
	NaNReset       time.Duration
	DebounceMode   DebounceMode
}

func DefaultOptions() Options {
	return Options{
		DigitDebounce:  50 * time.Millisecond,
		EqualsThrottle: 100 * time.Millisecond,
		NaNReset:       1500 * time.Millisecond,
		DebounceMode:   DebounceLatest,
	}
}
