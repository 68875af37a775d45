package observability

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName returns $OTEL_SERVICE_NAME, or "kidcalc".
func ServiceName() string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return "kidcalc"
}

// NewResource describes this process to the trace, metric and log
// providers. OTEL_RESOURCE_ATTRIBUTES is merged in.
func NewResource(ctx context.Context, version string) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName()),
			semconv.ServiceVersion(version),
		),
	)
}
