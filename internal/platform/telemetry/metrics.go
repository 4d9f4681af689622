package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IntakeMetrics counts crash reports through the relay
// A nil *IntakeMetrics records nothing
type IntakeMetrics struct {
	received    metric.Int64Counter
	failed      metric.Int64Counter
	attachments metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewIntakeMetrics registers the instruments on m; a nil meter uses the global provider
func NewIntakeMetrics(m metric.Meter) (*IntakeMetrics, error) {
	if m == nil {
		m = otel.Meter("crashrelay/intake")
	}
	var (
		im  IntakeMetrics
		err error
	)
	if im.received, err = m.Int64Counter("crashrelay.reports.received",
		metric.WithDescription("Crash reports accepted for processing")); err != nil {
		return nil, err
	}
	if im.failed, err = m.Int64Counter("crashrelay.reports.failed",
		metric.WithDescription("Crash reports that did not reach the backend, by reason")); err != nil {
		return nil, err
	}
	if im.attachments, err = m.Int64Counter("crashrelay.attachments.sent",
		metric.WithDescription("Files attached to submitted events")); err != nil {
		return nil, err
	}
	if im.duration, err = m.Float64Histogram("crashrelay.reports.duration",
		metric.WithDescription("Time spent processing one report"), metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &im, nil
}

// Received counts one accepted upload
func (m *IntakeMetrics) Received(ctx context.Context) {
	if m == nil {
		return
	}
	m.received.Add(ctx, 1)
}

// Failed counts one failed report with a short reason label
func (m *IntakeMetrics) Failed(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Attachments counts files sent with an event
func (m *IntakeMetrics) Attachments(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.attachments.Add(ctx, int64(n))
}

// Observe records the processing time with its outcome
func (m *IntakeMetrics) Observe(ctx context.Context, d time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}
