package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPreference is returned for patches carrying unsupported values.
var ErrInvalidPreference = errors.New("invalid preference")

// Preferences are the calculator's user settings.
type Preferences struct {
	Theme          string `json:"theme"`
	HistoryLimit   int    `json:"historyLimit"`
	ShowAnimations bool   `json:"showAnimations"`
}

// DefaultPreferences returns the settings used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "light", HistoryLimit: DefaultHistoryLimit, ShowAnimations: true}
}

// PreferencesPatch carries the fields to change; nil fields are kept.
type PreferencesPatch struct {
	Theme          *string `json:"theme,omitempty"`
	HistoryLimit   *int    `json:"historyLimit,omitempty"`
	ShowAnimations *bool   `json:"showAnimations,omitempty"`
}

func (p PreferencesPatch) validate() error {
	if p.Theme != nil && *p.Theme != "light" && *p.Theme != "dark" {
		return fmt.Errorf("%w: theme %q", ErrInvalidPreference, *p.Theme)
	}
	if p.HistoryLimit != nil && *p.HistoryLimit < 1 {
		return fmt.Errorf("%w: historyLimit %d", ErrInvalidPreference, *p.HistoryLimit)
	}
	return nil
}

// Preferences returns the stored settings merged over the defaults.
func (s *Store) Preferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()
	ok, err := s.loadJSON(ctx, PreferencesKey, &prefs)
	if err != nil {
		return DefaultPreferences(), err
	}
	if !ok {
		return DefaultPreferences(), nil
	}
	if prefs.HistoryLimit < 1 {
		prefs.HistoryLimit = DefaultHistoryLimit
	}
	return prefs, nil
}

// UpdatePreferences applies patch and returns the stored result.
func (s *Store) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (Preferences, error) {
	if err := patch.validate(); err != nil {
		return Preferences{}, err
	}
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return Preferences{}, err
	}
	if patch.Theme != nil {
		prefs.Theme = *patch.Theme
	}
	if patch.HistoryLimit != nil {
		prefs.HistoryLimit = *patch.HistoryLimit
	}
	if patch.ShowAnimations != nil {
		prefs.ShowAnimations = *patch.ShowAnimations
	}
	if err := s.saveJSON(ctx, PreferencesKey, prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// LastActive returns the stored last-active time. ok is false when none is
// stored or the value cannot be parsed.
func (s *Store) LastActive(ctx context.Context) (t time.Time, ok bool, err error) {
	raw, ok, err := s.Get(ctx, LastActiveKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// TouchLastActive records the current time as last active.
func (s *Store) TouchLastActive(ctx context.Context) error {
	return s.Set(ctx, LastActiveKey, s.now().UTC().Format(isoLayout))
}
