package session

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the session endpoints under /session. The stream
// endpoint is mounted separately by the server.
func RegisterRoutes(r chi.Router, s *Session) {
	h := NewHandler(s)
	r.Route("/session", func(r chi.Router) {
		r.Post("/keys", h.Keys)
		r.Get("/state", h.State)

		r.Get("/progress", h.Progress)
		r.Delete("/progress", h.ResetProgress)
		r.Get("/events", h.Events)
		r.Get("/achievements", h.Achievements)
		r.Post("/achievements/{key}", h.UnlockAchievement)
		r.Post("/streak/reset", h.ResetStreak)

		r.Get("/history", h.History)
		r.Post("/history", h.AddHistory)
		r.Delete("/history", h.ClearHistory)

		r.Get("/preferences", h.Preferences)
		r.Patch("/preferences", h.UpdatePreferences)
		r.Get("/accessibility", h.Accessibility)
		r.Patch("/accessibility", h.UpdateAccessibility)
		r.Delete("/accessibility", h.ResetAccessibility)
		r.Delete("/data", h.ClearAllData)
	})
}
