package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this package's tracer/meter to whatever
// OTel SDK the host application wires up; specforge never configures an
// exporter itself.
const instrumentationName = "github.com/specforge/specforge/pipeline"

type telemetry struct {
	tracer        trace.Tracer
	stageCounter  metric.Int64Counter
}

func newTelemetry() telemetry {
	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)
	counter, _ := meter.Int64Counter(
		"specforge.pipeline.stage_events",
		metric.WithDescription("count of pipeline stage progress events, by stage and status"),
	)
	return telemetry{tracer: tracer, stageCounter: counter}
}

// startStage opens a span for one stage's execution and records a counter
// tick for it. The returned func ends the span; it is always safe to call
// even when the tracer/meter are no-ops (the default when no SDK is
// configured).
func (t telemetry) startStage(ctx context.Context, jobID string, stage StageID) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, "pipeline."+stage.String(),
		trace.WithAttributes(
			attribute.String("specforge.job_id", jobID),
			attribute.Int("specforge.stage_id", int(stage)),
		),
	)
	if t.stageCounter != nil {
		t.stageCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("specforge.stage", stage.String()),
			attribute.String("specforge.status", "running"),
		))
	}
	return ctx, func(err error) {
		status := "completed"
		if err != nil {
			status = "failed"
			span.RecordError(err)
		}
		if t.stageCounter != nil {
			t.stageCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("specforge.stage", stage.String()),
				attribute.String("specforge.status", status),
			))
		}
		span.End()
	}
}
