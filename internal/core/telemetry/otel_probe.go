package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"todoapi/internal/core/port"
)

const tracerName = "todoapi"

// OTELProbe implements Telemetry using OpenTelemetry spans, zap logs and the
// Prometheus application metrics.
type OTELProbe struct {
	logger  *otelzap.Logger
	metrics *AppMetrics
}

// NewOTELProbe builds a probe. metrics may be nil when no registry is exposed.
func NewOTELProbe(logger *otelzap.Logger, metrics *AppMetrics) port.Telemetry {
	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan wraps OpenTelemetry span to implement our generic Span interface
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			kvs = append(kvs, attribute.String(key, v))
		case int:
			kvs = append(kvs, attribute.Int(key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(key, v))
		default:
			kvs = append(kvs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return kvs
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}

	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}

	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("operation", operation),
		attribute.String("entity", entity),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity, duration)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)

		p.logger.Ctx(ctx).Error("Repository operation failed",
			zap.String("operation", operation),
			zap.String("entity", entity),
			zap.Duration("duration", duration),
			zap.Error(err))

		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	// argument values may carry user content, only their types are logged
	argTypes := make([]string, len(args))
	for i := range args {
		argTypes[i] = fmt.Sprintf("%T", args[i])
	}

	p.logger.Ctx(ctx).Debug("Executing repository query",
		zap.String("operation", operation),
		zap.String("entity", entity),
		zap.String("query", query),
		zap.Strings("args_types", argTypes))
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)

		p.logger.Ctx(ctx).Warn("Service operation failed",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Error(err))

		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID int64, metadata map[string]interface{}) {
	trace.SpanFromContext(ctx).AddEvent(fmt.Sprintf("%s.%s", entity, event), trace.WithAttributes(
		append(toAttributes(metadata), attribute.Int64("entity_id", entityID))...,
	))

	if p.metrics != nil {
		p.metrics.RecordTodoOperation(ctx, event)
	}

	p.logger.Ctx(ctx).Info("Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.Int64("entity_id", entityID),
		zap.Any("metadata", metadata))
}
