package gamification

import (
	"encoding/json"
	"slices"
	"time"
)

// EventType classifies a gamification event.
type EventType string

const (
	EventCalculationPerformed EventType = "calculation_performed"
	EventAchievementEarned    EventType = "achievement_earned"
	EventStreakMilestone      EventType = "streak_milestone"
	EventFirstUse             EventType = "first_use"
)

// Event is one entry of the append-only scoring log.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	PointsEarned int       `json:"pointsEarned"`
	Timestamp    time.Time `json:"timestamp"`
	Description  string    `json:"description"`
}

// Progress is the user's accumulated state. Level is always derived from
// Points; it is written out for readers but never read back.
type Progress struct {
	Points       int              `json:"points"`
	Achievements []AchievementKey `json:"achievements"`
	Streak       int              `json:"streak"`
	LastActive   time.Time        `json:"lastActive"`
}

// Level returns floor(Points/100) + 1.
func (p Progress) Level() int {
	return LevelForPoints(p.Points)
}

// Has reports whether key has been unlocked.
func (p Progress) Has(key AchievementKey) bool {
	return slices.Contains(p.Achievements, key)
}

func (p Progress) MarshalJSON() ([]byte, error) {
	type plain Progress
	if p.Achievements == nil {
		p.Achievements = []AchievementKey{}
	}
	return json.Marshal(struct {
		plain
		Level int `json:"level"`
	}{plain(p), p.Level()})
}

func (p Progress) clone() Progress {
	p.Achievements = slices.Clone(p.Achievements)
	return p
}

// normalize repairs values read from storage that break invariants.
func (p Progress) normalize() Progress {
	p.Points = max(p.Points, 0)
	p.Streak = max(p.Streak, 0)

	seen := make(map[AchievementKey]struct{}, len(p.Achievements))
	keys := make([]AchievementKey, 0, len(p.Achievements))
	for _, k := range p.Achievements {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	p.Achievements = keys
	return p
}
