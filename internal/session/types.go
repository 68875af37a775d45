package session

import (
	"kidcalc/internal/gamification"
	"kidcalc/internal/storage"
)

// KeyRequest is the JSON body for POST /session/keys and stream messages.
type KeyRequest struct {
	Key string `json:"key"`
}

// ProgressResponse adds the level helpers to the stored progress.
type ProgressResponse struct {
	Progress          gamification.Progress `json:"progress"`
	PointsToNextLevel int                   `json:"pointsToNextLevel"`
	LevelProgress     float64               `json:"levelProgress"`
}

func progressResponse(p gamification.Progress) ProgressResponse {
	return ProgressResponse{
		Progress:          p,
		PointsToNextLevel: gamification.PointsToNextLevel(p.Points),
		LevelProgress:     gamification.LevelProgress(p.Points),
	}
}

type EventsResponse struct {
	Events []gamification.Event `json:"events"`
}

// AchievementStatus is a catalog entry with its unlock state.
type AchievementStatus struct {
	gamification.Achievement
	Unlocked bool `json:"unlocked"`
}

type UnlockResponse struct {
	Key      gamification.AchievementKey `json:"key"`
	Unlocked bool                        `json:"unlocked"`
	Progress gamification.Progress       `json:"progress"`
}

type HistoryResponse struct {
	Calculations []storage.Calculation `json:"calculations"`
}

type EvaluateRequest struct {
	Expression string `json:"expression"`
}
