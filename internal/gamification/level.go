package gamification

// PointsPerLevel is the flat number of points between consecutive levels.
const PointsPerLevel = 100

// LevelForPoints returns floor(points/100) + 1.
func LevelForPoints(points int) int {
	if points <= 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// PointsForLevel returns the total points needed to reach level.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * PointsPerLevel
}

// PointsToNextLevel returns the points still missing for the next level.
func PointsToNextLevel(points int) int {
	return PointsForLevel(LevelForPoints(points)+1) - max(points, 0)
}

// LevelProgress returns progress toward the next level as a percentage.
func LevelProgress(points int) float64 {
	if points <= 0 {
		return 0
	}
	return float64(points%PointsPerLevel*100) / PointsPerLevel
}
