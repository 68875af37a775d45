package gamification

import "testing"

func TestLevelHelpers(t *testing.T) {
	tests := []struct {
		points   int
		level    int
		toNext   int
		progress float64
	}{
		{0, 1, 100, 0},
		{99, 1, 1, 99},
		{100, 2, 100, 0},
		{150, 2, 50, 50},
		{1234, 13, 66, 34},
	}

	for _, tt := range tests {
		if got := LevelForPoints(tt.points); got != tt.level {
			t.Fatalf("LevelForPoints(%d): expected %d, got %d", tt.points, tt.level, got)
		}
		if got := PointsToNextLevel(tt.points); got != tt.toNext {
			t.Fatalf("PointsToNextLevel(%d): expected %d, got %d", tt.points, tt.toNext, got)
		}
		if got := LevelProgress(tt.points); got != tt.progress {
			t.Fatalf("LevelProgress(%d): expected %v, got %v", tt.points, tt.progress, got)
		}
	}
}

func TestPointsForLevel(t *testing.T) {
	if got := PointsForLevel(1); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := PointsForLevel(5); got != 400 {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestCatalogIsFixed(t *testing.T) {
	want := map[AchievementKey]int{
		FirstCalc:     10,
		TenCalc:       50,
		HundredCalc:   200,
		PerfectStreak: 100,
		SpeedDemon:    75,
	}
	cat := Catalog()
	if len(cat) != len(want) {
		t.Fatalf("expected %d achievements, got %d", len(want), len(cat))
	}
	for _, a := range cat {
		if want[a.Key] != a.Points {
			t.Fatalf("%s: expected %d points, got %d", a.Key, want[a.Key], a.Points)
		}
	}
	cat[0].Points = 0
	if a, _ := Lookup(FirstCalc); a.Points != 10 {
		t.Fatal("Catalog must return a copy")
	}
}
