package query

import (
	"context"
	"time"

	"todoapi/internal/core/port"
)

// Observation tracks a single repository call: its span, its duration and the
// outcome reported to telemetry.
type Observation struct {
	telemetry port.Telemetry
	span      port.Span
	operation string
	startTime time.Time
}

func Observe(ctx context.Context, telemetry port.Telemetry, system, operation, statement string, attrs map[string]interface{}) (context.Context, *Observation) {
	spanAttrs := map[string]interface{}{
		"db.system":    system,
		"db.table":     TodosTable,
		"db.operation": statement,
	}

	for k, v := range attrs {
		spanAttrs[k] = v
	}

	ctx, span := telemetry.StartRepositorySpan(ctx, operation, "todo", spanAttrs)

	return ctx, &Observation{
		telemetry: telemetry,
		span:      span,
		operation: operation,
		startTime: time.Now(),
	}
}

func (o *Observation) SetAttributes(attrs map[string]interface{}) {
	o.span.SetAttributes(attrs)
}

func (o *Observation) Query(ctx context.Context, stmt string, args []interface{}) {
	o.telemetry.RecordRepositoryQuery(ctx, o.operation, "todo", stmt, args)
}

// Fail marks the call as failed and returns err unchanged.
func (o *Observation) Fail(ctx context.Context, err error) error {
	o.span.SetStatus("error", err.Error())
	o.span.RecordError(err)
	o.telemetry.RecordRepositoryOperation(ctx, o.operation, "todo", time.Since(o.startTime), err)

	return err
}

func (o *Observation) Succeed(ctx context.Context) {
	o.span.SetStatus("ok", "")
	o.telemetry.RecordRepositoryOperation(ctx, o.operation, "todo", time.Since(o.startTime), nil)
}

func (o *Observation) End() {
	o.span.SetAttributes(map[string]interface{}{
		"operation.duration_ns": time.Since(o.startTime).Nanoseconds(),
	})
	o.span.End()
}
