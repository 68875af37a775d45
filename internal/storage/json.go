package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"kidcalc/internal/observability"

	"go.uber.org/zap"
)

// loadJSON decodes the value under key into dst. A missing key leaves dst
// untouched; a corrupt value is logged and reported as missing.
func (s *Store) loadJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		observability.LoggerWithTrace(ctx).Warn("ignoring corrupt stored value",
			zap.String("key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}
