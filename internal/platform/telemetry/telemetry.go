// Package telemetry wires OpenTelemetry tracing and metrics
// Without an OTLP endpoint the global no-op providers stay in place
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"crashrelay/internal/platform/config"
	"crashrelay/internal/platform/logger"
)

// Options configures the exporters
type Options struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string // eg http://otel-collector:4318
	MetricInterval time.Duration
}

// FromConf reads OTEL_* settings
func FromConf(c config.Conf, service, version string) Options {
	oc := c.Prefix("OTEL_")
	return Options{
		ServiceName:    oc.MayString("SERVICE_NAME", service),
		ServiceVersion: version,
		Endpoint:       oc.MayString("EXPORTER_OTLP_ENDPOINT", ""),
		MetricInterval: oc.MayDuration("METRIC_INTERVAL", 30*time.Second),
	}
}

// Shutdown flushes and stops the providers
type Shutdown func(context.Context) error

// Setup installs global providers; the returned Shutdown is never nil
func Setup(ctx context.Context, opt Options) (Shutdown, error) {
	log := logger.Named("telemetry")
	if opt.Endpoint == "" {
		log.Debug().Msg("no otlp endpoint; telemetry stays no-op")
		return func(context.Context) error { return nil }, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opt.ServiceName),
		attribute.String("service.version", opt.ServiceVersion),
	)

	texp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opt.Endpoint))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(texp), sdktrace.WithResource(res))

	mexp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(opt.Endpoint))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	interval := opt.MetricInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mexp, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info().Str("endpoint", opt.Endpoint).Dur("metric_interval", interval).Msg("telemetry enabled")
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

// Middleware traces each request under the given operation name
func Middleware(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operation)
	}
}
