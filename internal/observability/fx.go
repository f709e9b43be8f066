package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/metrics"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/tracing"
)

// Module wires tracing and metrics from the application config.
var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) tracing.Config {
		return tracing.Config{
			Enabled:          cfg.TracingEnabled,
			ServiceName:      cfg.ServiceName,
			ServiceVersion:   cfg.ServiceVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.TracingEndpoint,
			ExporterProtocol: cfg.TracingProtocol,
			SamplingRatio:    cfg.TracingSampling,
		}
	}),
	fx.Provide(tracing.NewProvider),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
		}
	}),
	fx.Provide(func() metric.MeterProvider {
		return otel.GetMeterProvider()
	}),
	fx.Provide(metrics.NewHTTPMetrics),
	fx.Provide(metrics.BillingWithConfig),
)
