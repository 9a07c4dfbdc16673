package bootstrap

import (
	"context"
	"log/slog"

	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewTracerProvider,
	),
)

func NewTracerProvider(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (trace.TracerProvider, error) {
	tp, shutdown, err := telemetry.SetupTracer(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := shutdown(ctx); err != nil {
				logger.Warn("failed to flush traces", "error", err.Error())
			}
			return nil
		},
	})

	return tp, nil
}
