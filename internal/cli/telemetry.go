package cli

import (
	"context"
	"errors"

	"kidcalc/internal/calculator"
	"kidcalc/internal/config"
	"kidcalc/internal/observability"
)

// initTelemetry starts the OTLP exporters selected in cfg and registers the
// calculator instruments. The returned function flushes and stops them.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig, version string) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Enabled {
		res, err := observability.NewResource(ctx, version)
		if err != nil {
			return nil, err
		}

		traceShutdown, err := observability.InitTracing(ctx, res)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		metricShutdown, err := observability.InitMetrics(ctx, res)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, metricShutdown)

		if cfg.ExportLogs {
			logShutdown, err := observability.InitLogging(ctx, res)
			if err != nil {
				shutdown(ctx)
				return nil, err
			}
			shutdowns = append(shutdowns, logShutdown)
		}
	}

	// Instruments bind to whichever meter provider is installed.
	if err := calculator.InitMetrics(); err != nil {
		shutdown(ctx)
		return nil, err
	}
	return shutdown, nil
}
