package observability

import (
	"context"
	"testing"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNewResource(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")

	res, err := NewResource(context.Background(), "1.2.3")
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}

	name, _ := res.Set().Value(semconv.ServiceNameKey)
	if name.AsString() != "kidcalc" {
		t.Fatalf("expected service name kidcalc, got %q", name.AsString())
	}
	version, _ := res.Set().Value(semconv.ServiceVersionKey)
	if version.AsString() != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", version.AsString())
	}
}

func TestServiceNameFromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "kidcalc-classroom")
	if got := ServiceName(); got != "kidcalc-classroom" {
		t.Fatalf("expected kidcalc-classroom, got %q", got)
	}
}

func TestPrometheusHandlerServesRegistry(t *testing.T) {
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected runtime collectors in the registry")
	}
	if PrometheusHandler() == nil {
		t.Fatal("expected a handler")
	}
}
