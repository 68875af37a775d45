package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "abc-123")
	if got := RequestIDFromContext(ctx); got != "abc-123" {
		t.Fatalf("expected %q, got %q", "abc-123", got)
	}

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestRequestIDFromHeader(t *testing.T) {
	incoming := uuid.New().String()

	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"well-formed", incoming, true},
		{"missing", "", false},
		{"garbage", "drop table", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/session/state", nil)
			if tc.header != "" {
				r.Header.Set(RequestIDHeader, tc.header)
			}

			got := requestIDFrom(r)
			if tc.reuse && got != incoming {
				t.Fatalf("expected incoming id %q, got %q", incoming, got)
			}
			if !tc.reuse {
				if got == tc.header {
					t.Fatalf("expected a fresh id, got %q", got)
				}
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("expected valid UUID, got %q: %v", got, err)
				}
			}
		})
	}
}
