package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"kidcalc/internal/calculator"
	"kidcalc/internal/gamification"
	"kidcalc/internal/handlers"
	"kidcalc/internal/observability"
	"kidcalc/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("session")

// Handler serves the /session endpoints for one Session.
type Handler struct {
	s *Session
}

func NewHandler(s *Session) *Handler {
	return &Handler{s: s}
}

type call struct {
	ctx    context.Context
	span   trace.Span
	logger *zap.Logger
	op     string
	w      http.ResponseWriter
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request, op string) *call {
	ctx, span := tracer.Start(r.Context(), "session."+op,
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(r.Context()))),
	)
	return &call{ctx: ctx, span: span, logger: observability.LoggerWithTrace(ctx), op: op, w: w}
}

func (c *call) fail(status int, msg string, err error) {
	observability.RecordError(c.ctx, c.span, c.logger, calculator.ErrorCounter(), c.op, msg, err, status, c.w)
	c.span.End()
}

// storeErr maps a store failure to a response.
func (c *call) storeErr(err error) {
	if errors.Is(err, storage.ErrInvalidPreference) {
		c.fail(http.StatusBadRequest, err.Error(), err)
		return
	}
	c.fail(http.StatusInternalServerError, "storage unavailable", err)
}

func (c *call) ok(v any) {
	c.span.SetStatus(codes.Ok, "")
	c.span.End()
	handlers.WriteJSON(c.w, v)
}

func (c *call) noContent() {
	c.span.SetStatus(codes.Ok, "")
	c.span.End()
	c.w.WriteHeader(http.StatusNoContent)
}

func (c *call) decode(r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		c.fail(http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// Keys handles POST /session/keys.
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "keys")
	var req KeyRequest
	if !c.decode(r, &req) {
		return
	}
	c.span.SetAttributes(attribute.String("session.key", req.Key))

	snap, err := h.s.Press(c.ctx, req.Key)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidOperation) {
			c.fail(http.StatusBadRequest, "unknown key", err)
			return
		}
		c.fail(http.StatusServiceUnavailable, "session unavailable", err)
		return
	}
	c.ok(snap)
}

// State handles GET /session/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "state")
	snap, err := h.s.State(c.ctx)
	if err != nil {
		c.fail(http.StatusServiceUnavailable, "session unavailable", err)
		return
	}
	c.ok(snap)
}

// Progress handles GET /session/progress.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "progress")
	c.ok(progressResponse(h.s.Engine().Progress()))
}

// ResetProgress handles DELETE /session/progress.
func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "progress.reset")
	if err := h.s.ResetProgress(c.ctx); err != nil {
		c.fail(http.StatusServiceUnavailable, "session unavailable", err)
		return
	}
	c.logger.Info("progress reset")
	c.ok(progressResponse(h.s.Engine().Progress()))
}

// Events handles GET /session/events. ?since=n skips the first n events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "events")
	events := h.s.Engine().Events()
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n < 0 {
			err = fmt.Errorf("negative since %d", n)
		}
		if err != nil {
			c.fail(http.StatusBadRequest, "invalid since parameter", err)
			return
		}
		events = h.s.Engine().EventsSince(n)
	}
	if events == nil {
		events = []gamification.Event{}
	}
	c.ok(EventsResponse{Events: events})
}

// Achievements handles GET /session/achievements.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "achievements")
	p := h.s.Engine().Progress()
	catalog := gamification.Catalog()
	out := make([]AchievementStatus, len(catalog))
	for i, a := range catalog {
		out[i] = AchievementStatus{Achievement: a, Unlocked: p.Has(a.Key)}
	}
	c.ok(out)
}

// UnlockAchievement handles POST /session/achievements/{key}.
func (h *Handler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "achievements.unlock")
	key := gamification.AchievementKey(chi.URLParam(r, "key"))
	c.span.SetAttributes(attribute.String("achievement", string(key)))

	unlocked, err := h.s.UnlockAchievement(c.ctx, key)
	if errors.Is(err, ErrUnknownAchievement) {
		c.fail(http.StatusNotFound, "unknown achievement", err)
		return
	}
	if err != nil {
		c.fail(http.StatusServiceUnavailable, "session unavailable", err)
		return
	}
	c.ok(UnlockResponse{Key: key, Unlocked: unlocked, Progress: h.s.Engine().Progress()})
}

// ResetStreak handles POST /session/streak/reset.
func (h *Handler) ResetStreak(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "streak.reset")
	if err := h.s.ResetStreak(c.ctx); err != nil {
		c.fail(http.StatusServiceUnavailable, "session unavailable", err)
		return
	}
	c.ok(progressResponse(h.s.Engine().Progress()))
}

// History handles GET /session/history. ?limit=n caps the list.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "history")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n < 1 {
			err = fmt.Errorf("non-positive limit %d", n)
		}
		if err != nil {
			c.fail(http.StatusBadRequest, "invalid limit parameter", err)
			return
		}
		limit = n
	}
	list, err := h.s.Store().RecentCalculations(c.ctx, limit)
	if err != nil {
		c.storeErr(err)
		return
	}
	if list == nil {
		list = []storage.Calculation{}
	}
	c.ok(HistoryResponse{Calculations: list})
}

// AddHistory handles POST /session/history: evaluate and store.
func (h *Handler) AddHistory(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "history.add")
	var req EvaluateRequest
	if !c.decode(r, &req) {
		return
	}
	calc, err := h.s.EvaluateAndStore(c.ctx, req.Expression)
	if err != nil {
		if calculator.IsCalculationError(err) {
			c.fail(http.StatusBadRequest, calculator.FriendlyMessage(err), err)
			return
		}
		c.storeErr(err)
		return
	}
	c.ok(calc)
}

// ClearHistory handles DELETE /session/history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "history.clear")
	if err := h.s.Store().ClearHistory(c.ctx); err != nil {
		c.storeErr(err)
		return
	}
	c.noContent()
}

// Preferences handles GET /session/preferences.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "preferences")
	prefs, err := h.s.Store().Preferences(c.ctx)
	if err != nil {
		c.storeErr(err)
		return
	}
	c.ok(prefs)
}

// UpdatePreferences handles PATCH /session/preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "preferences.update")
	var patch storage.PreferencesPatch
	if !c.decode(r, &patch) {
		return
	}
	prefs, err := h.s.Store().UpdatePreferences(c.ctx, patch)
	if err != nil {
		c.storeErr(err)
		return
	}
	c.ok(prefs)
}

// Accessibility handles GET /session/accessibility.
func (h *Handler) Accessibility(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "accessibility")
	a, err := h.s.Store().Accessibility(c.ctx)
	if err != nil {
		c.storeErr(err)
		return
	}
	c.ok(a)
}

// UpdateAccessibility handles PATCH /session/accessibility.
func (h *Handler) UpdateAccessibility(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "accessibility.update")
	var patch storage.AccessibilityPatch
	if !c.decode(r, &patch) {
		return
	}
	a, err := h.s.Store().UpdateAccessibility(c.ctx, patch)
	if err != nil {
		c.storeErr(err)
		return
	}
	c.ok(a)
}

// ResetAccessibility handles DELETE /session/accessibility.
func (h *Handler) ResetAccessibility(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "accessibility.reset")
	a, err := h.s.Store().ResetAccessibility(c.ctx)
	if err != nil {
		c.storeErr(err)
		return
	}
	c.ok(a)
}

// ClearAllData handles DELETE /session/data.
func (h *Handler) ClearAllData(w http.ResponseWriter, r *http.Request) {
	c := h.begin(w, r, "data.clear")
	if err := h.s.Store().ClearAllData(c.ctx); err != nil {
		c.storeErr(err)
		return
	}
	c.logger.Info("calculator data cleared")
	c.noContent()
}
