package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kidcalc/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	old := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = old })
	return logs
}

func TestRequestIDMiddlewareSetsHeaderAndContext(t *testing.T) {
	var ctxRequestID string

	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/session/keys", nil)
	w := testutil.ExecuteRequest(r, h)

	headerRequestID := w.Result().Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(headerRequestID); err != nil {
		t.Fatalf("expected header to contain UUID, got %q: %v", headerRequestID, err)
	}
	if ctxRequestID != headerRequestID {
		t.Fatalf("expected context request_id %q to match header %q", ctxRequestID, headerRequestID)
	}
}

func TestRequestIDMiddlewareEchoesIncomingID(t *testing.T) {
	incoming := uuid.New().String()
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/session/state", nil)
	r.Header.Set(RequestIDHeader, incoming)
	w := testutil.ExecuteRequest(r, h)

	if got := w.Result().Header.Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected %q, got %q", incoming, got)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/health", want: false},
		{path: "/metrics", want: false},
		{path: "/ready", want: false},
		{path: "/session/stream", want: false},
		{path: "/session/keys", want: true},
		{path: "/calculator/add", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if got := shouldTraceRequest(r); got != tc.want {
				t.Fatalf("path %q: expected %t, got %t", tc.path, tc.want, got)
			}
		})
	}
}

func TestLoggingMiddlewareWritesCompletionLog(t *testing.T) {
	logs := observeLogs(t, zap.InfoLevel)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest(http.MethodPost, "/session/keys", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-123"))
	_ = testutil.ExecuteRequest(r, h)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Message != "request completed" || entry.Level != zap.InfoLevel {
		t.Fatalf("unexpected entry %q at %s", entry.Message, entry.Level)
	}

	fields := entry.ContextMap()
	if fields["method"] != http.MethodPost {
		t.Fatalf("expected method %q, got %#v", http.MethodPost, fields["method"])
	}
	if fields["path"] != "/session/keys" {
		t.Fatalf("expected path %q, got %#v", "/session/keys", fields["path"])
	}
	if fields["status"] != int64(http.StatusAccepted) {
		t.Fatalf("expected status %d, got %#v", http.StatusAccepted, fields["status"])
	}
	if fields["bytes"] != int64(2) {
		t.Fatalf("expected 2 bytes, got %#v", fields["bytes"])
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("expected request_id %q, got %#v", "req-123", fields["request_id"])
	}
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   zapcore.Level
	}{
		{"/health", http.StatusOK, zap.DebugLevel},
		{"/session/state", http.StatusOK, zap.InfoLevel},
		{"/session/history", http.StatusInternalServerError, zap.ErrorLevel},
	}
	for _, tc := range tests {
		logs := observeLogs(t, zap.DebugLevel)

		h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_ = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, tc.path, nil), h)

		entries := logs.All()
		if len(entries) != 1 || entries[0].Level != tc.want {
			t.Fatalf("%s %d: expected one %s entry, got %v", tc.path, tc.status, tc.want, entries)
		}
	}
}

func TestLoggingMiddlewareDefaultsStatusToOK(t *testing.T) {
	logs := observeLogs(t, zap.InfoLevel)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	_ = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/session/state", nil), h)

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Fatalf("expected status 200, got %#v", got)
	}
}
