package storage

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"
)

// DefaultHistoryLimit is the number of calculations returned when no limit
// is given, and the default preference.
const DefaultHistoryLimit = 10

// Calculation is one stored history entry.
type Calculation struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     float64   `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecentCalculations returns up to limit entries, most recent first. A
// non-positive limit means DefaultHistoryLimit.
func (s *Store) RecentCalculations(ctx context.Context, limit int) ([]Calculation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	all, err := s.calculations(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) calculations(ctx context.Context) ([]Calculation, error) {
	var list []Calculation
	ok, err := s.loadJSON(ctx, CalculationsKey, &list)
	if err != nil || !ok {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b Calculation) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return list, nil
}

// SaveCalculation prepends a new entry and trims the list to the
// historyLimit preference.
func (s *Store) SaveCalculation(ctx context.Context, expression string, result float64) (Calculation, error) {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return Calculation{}, fmt.Errorf("save calculation: non-finite result %v", result)
	}

	c := Calculation{
		ID:         s.newID(),
		Expression: expression,
		Result:     result,
		Timestamp:  s.now().UTC().Truncate(time.Millisecond),
	}

	existing, err := s.calculations(ctx)
	if err != nil {
		return Calculation{}, err
	}
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return Calculation{}, err
	}

	list := append([]Calculation{c}, existing...)
	if len(list) > prefs.HistoryLimit {
		list = list[:prefs.HistoryLimit]
	}
	if err := s.saveJSON(ctx, CalculationsKey, list); err != nil {
		return Calculation{}, err
	}
	return c, nil
}

// ClearHistory removes every stored calculation.
func (s *Store) ClearHistory(ctx context.Context) error {
	return s.Delete(ctx, CalculationsKey)
}

// ClearAllData removes calculations, preferences and the last-active
// timestamp. Progress and accessibility settings are kept.
func (s *Store) ClearAllData(ctx context.Context) error {
	return s.Delete(ctx, CalculationsKey, PreferencesKey, LastActiveKey)
}
