package gamification

// AchievementKey identifies a catalog achievement.
type AchievementKey string

const (
	FirstCalc     AchievementKey = "FIRST_CALC"
	TenCalc       AchievementKey = "TEN_CALC"
	HundredCalc   AchievementKey = "HUNDRED_CALC"
	PerfectStreak AchievementKey = "PERFECT_STREAK"
	SpeedDemon    AchievementKey = "SPEED_DEMON"
)

// Achievement is a one-time milestone with a fixed point reward.
type Achievement struct {
	Key         AchievementKey `json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Points      int            `json:"points"`
	// Auto is true when the engine unlocks the achievement by itself.
	Auto bool `json:"auto"`
}

// catalog is fixed. TEN_CALC, HUNDRED_CALC and SPEED_DEMON have no trigger
// in the engine; callers unlock them explicitly.
var catalog = []Achievement{
	{Key: FirstCalc, Name: "First Calculation", Description: "Complete your first calculation", Points: 10, Auto: true},
	{Key: TenCalc, Name: "Calculator Enthusiast", Description: "Complete 10 calculations", Points: 50},
	{Key: HundredCalc, Name: "Calculation Master", Description: "Complete 100 calculations", Points: 200},
	{Key: PerfectStreak, Name: "Perfect Streak", Description: "Maintain a 7-day calculation streak", Points: 100, Auto: true},
	{Key: SpeedDemon, Name: "Speed Demon", Description: "Perform 5 calculations in under 30 seconds", Points: 75},
}

// Catalog returns every achievement definition in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for key.
func Lookup(key AchievementKey) (Achievement, bool) {
	for _, a := range catalog {
		if a.Key == key {
			return a, true
		}
	}
	return Achievement{}, false
}
