package port

import (
	"context"
	"time"
)

// Span is the slice of a tracing span the core layers need.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry lets the core emit traces, metrics and logs without knowing the
// backend behind them.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{})

	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID int64, metadata map[string]interface{})
}
