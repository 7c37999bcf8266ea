// Package observe provides observability primitives for the assistant:
// OpenTelemetry metrics with a Prometheus exporter bridge so the standard
// /metrics endpoint keeps working.
//
// A package-level default [Metrics] instance ([Default]) is provided for
// convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/novakit/nova"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// CaptureDuration tracks microphone capture plus transcription latency.
	CaptureDuration metric.Float64Histogram

	// Utterances counts processed utterances. Use with attribute:
	//   attribute.String("outcome", ...) — matched, builtin, learned,
	//   unknown, exit.
	Utterances metric.Int64Counter

	// MatchScore records the similarity score of the best command match,
	// whether or not it cleared the threshold.
	MatchScore metric.Float64Histogram

	// TranscribeErrors counts failed capture cycles. Use with attribute:
	//   attribute.String("reason", ...) — timeout, unintelligible,
	//   unavailable.
	TranscribeErrors metric.Int64Counter

	// CommandsLearned counts commands saved through the teaching flow.
	CommandsLearned metric.Int64Counter

	// ActionFailures counts actions that failed to launch.
	ActionFailures metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// capture-and-transcribe cycles, which include up to 10s of listening.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30,
}

// scoreBuckets covers the [0, 1] similarity range.
var scoreBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.CaptureDuration, err = m.Float64Histogram("nova.capture.duration",
		metric.WithDescription("Latency of one capture-and-transcribe cycle."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MatchScore, err = m.Float64Histogram("nova.match.score",
		metric.WithDescription("Best similarity score per command lookup."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Utterances, err = m.Int64Counter("nova.utterances",
		metric.WithDescription("Total processed utterances by outcome."),
	); err != nil {
		return nil, err
	}
	if met.TranscribeErrors, err = m.Int64Counter("nova.transcribe.errors",
		metric.WithDescription("Total failed capture cycles by reason."),
	); err != nil {
		return nil, err
	}
	if met.CommandsLearned, err = m.Int64Counter("nova.commands.learned",
		metric.WithDescription("Total commands saved through the teaching flow."),
	); err != nil {
		return nil, err
	}
	if met.ActionFailures, err = m.Int64Counter("nova.action.failures",
		metric.WithDescription("Total actions that failed to launch."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// Default returns the package-level [Metrics] instance, creating it on first
// call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordUtterance records one processed utterance with its outcome.
func (m *Metrics) RecordUtterance(ctx context.Context, outcome string) {
	m.Utterances.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordTranscribeError records one failed capture cycle with its reason.
func (m *Metrics) RecordTranscribeError(ctx context.Context, reason string) {
	m.TranscribeErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}

// RecordCapture records the latency of a capture-and-transcribe cycle.
func (m *Metrics) RecordCapture(ctx context.Context, d time.Duration) {
	m.CaptureDuration.Record(ctx, d.Seconds())
}
