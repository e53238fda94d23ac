// Package telemetry instruments the actor run-loop with OpenTelemetry
// spans and metrics, the same shape the teacher repository's vertex.go
// wraps every vertex handler in: one span per run-loop step, a firing
// counter, an error counter, and a duration histogram, all keyed by
// actor name and step kind ("collect", "update", "distribute").
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	meter  = otel.GetMeterProvider().Meter("segmentedscope/actors")
	tracer = otel.GetTracerProvider().Tracer("segmentedscope/actors")

	firingCounter, _  = meter.Int64Counter("actor.firings")
	errorCounter, _   = meter.Int64Counter("actor.errors")
	durationHist, _   = meter.Float64Histogram("actor.step.duration_ms")
)

// Step records one collect/update/distribute step of an actor's
// run-loop, opening a span for its duration and emitting the firing,
// error, and duration metrics on return via the returned end function.
func Step(ctx context.Context, actorName, step string) (context.Context, func(err error)) {
	spanCtx, span := tracer.Start(ctx, actorName+"."+step,
		trace.WithAttributes(
			attribute.String("actor", actorName),
			attribute.String("step", step),
			attribute.String("run_id", uuid.NewString()),
		),
	)
	start := time.Now()
	attrs := metric.WithAttributes(
		attribute.String("actor", actorName),
		attribute.String("step", step),
	)
	firingCounter.Add(spanCtx, 1, attrs)

	return spanCtx, func(err error) {
		durationHist.Record(spanCtx, float64(time.Since(start).Microseconds())/1000.0, attrs)
		if err != nil {
			span.RecordError(err)
			errorCounter.Add(spanCtx, 1, attrs)
		}
		span.End()
	}
}
