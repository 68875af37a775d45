package storage

import (
	"context"
	"fmt"
	"slices"
)

var (
	fontSizes   = []string{"small", "medium", "large", "xlarge"}
	colorThemes = []string{"normal", "protanopia", "deuteranopia", "tritanopia"}
)

// Accessibility holds the display accommodations a front end applies. The
// store only keeps the record.
type Accessibility struct {
	FontSize         string `json:"fontSize"`
	HighContrast     bool   `json:"highContrast"`
	ReduceMotion     bool   `json:"reduceMotion"`
	ScreenReaderMode bool   `json:"screenReaderMode"`
	ColorTheme       string `json:"colorTheme"`
}

func DefaultAccessibility() Accessibility {
	return Accessibility{FontSize: "medium", ColorTheme: "normal"}
}

// AccessibilityPatch carries the fields to change; nil fields are kept.
type AccessibilityPatch struct {
	FontSize         *string `json:"fontSize,omitempty"`
	HighContrast     *bool   `json:"highContrast,omitempty"`
	ReduceMotion     *bool   `json:"reduceMotion,omitempty"`
	ScreenReaderMode *bool   `json:"screenReaderMode,omitempty"`
	ColorTheme       *string `json:"colorTheme,omitempty"`
}

func (p AccessibilityPatch) validate() error {
	if p.FontSize != nil && !slices.Contains(fontSizes, *p.FontSize) {
		return fmt.Errorf("%w: fontSize %q", ErrInvalidPreference, *p.FontSize)
	}
	if p.ColorTheme != nil && !slices.Contains(colorThemes, *p.ColorTheme) {
		return fmt.Errorf("%w: colorTheme %q", ErrInvalidPreference, *p.ColorTheme)
	}
	return nil
}

// Accessibility returns the stored record merged over the defaults.
func (s *Store) Accessibility(ctx context.Context) (Accessibility, error) {
	a := DefaultAccessibility()
	ok, err := s.loadJSON(ctx, AccessibilityKey, &a)
	if err != nil || !ok {
		return DefaultAccessibility(), err
	}
	return a, nil
}

// UpdateAccessibility applies patch and returns the stored result.
func (s *Store) UpdateAccessibility(ctx context.Context, patch AccessibilityPatch) (Accessibility, error) {
	if err := patch.validate(); err != nil {
		return Accessibility{}, err
	}
	a, err := s.Accessibility(ctx)
	if err != nil {
		return Accessibility{}, err
	}
	if patch.FontSize != nil {
		a.FontSize = *patch.FontSize
	}
	if patch.HighContrast != nil {
		a.HighContrast = *patch.HighContrast
	}
	if patch.ReduceMotion != nil {
		a.ReduceMotion = *patch.ReduceMotion
	}
	if patch.ScreenReaderMode != nil {
		a.ScreenReaderMode = *patch.ScreenReaderMode
	}
	if patch.ColorTheme != nil {
		a.ColorTheme = *patch.ColorTheme
	}
	if err := s.saveJSON(ctx, AccessibilityKey, a); err != nil {
		return Accessibility{}, err
	}
	return a, nil
}

// ResetAccessibility stores and returns the defaults.
func (s *Store) ResetAccessibility(ctx context.Context) (Accessibility, error) {
	a := DefaultAccessibility()
	if err := s.saveJSON(ctx, AccessibilityKey, a); err != nil {
		return Accessibility{}, err
	}
	return a, nil
}
