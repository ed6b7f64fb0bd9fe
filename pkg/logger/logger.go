package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const lokiPushPath = "/loki/api/v1/push"

// LokiLogger writes structured logs through zap, correlated with the active
// trace, and mirrors them to Grafana Loki when a push URL is configured.
type LokiLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiLogger builds a production zap logger. lokiURL may be empty, in which
// case nothing is pushed.
func NewLokiLogger(serviceName, lokiURL string) (*LokiLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLokiLogger(zapLogger, serviceName, lokiURL), nil
}

func NewNopLogger() *LokiLogger {
	return newLokiLogger(zap.NewNop(), "test", "")
}

func newLokiLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *LokiLogger {
	l := &LokiLogger{
		Logger:      otelzap.New(zapLogger, otelzap.WithMinLevel(zapcore.InfoLevel)),
		ServiceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		l.lokiURL = strings.TrimRight(lokiURL, "/") + lokiPushPath
	}

	return l
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) LokiEnabled() bool {
	return l.lokiURL != ""
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *LokiLogger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *LokiLogger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, fields...)
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, fields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, fields...)
	}

	if !l.LokiEnabled() {
		return
	}

	// the request context is cancelled once the handler returns
	pushCtx := trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx))

	go func() {
		if err := l.Push(pushCtx, level, msg, fields...); err != nil {
			l.Logger.Warn("Failed to push log to Loki", zap.Error(err))
		}
	}()
}

// Push sends a single log line to Loki.
func (l *LokiLogger) Push(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) error {
	if !l.LokiEnabled() {
		return nil
	}

	line, err := l.encodeLine(ctx, level, msg, fields)

	if err != nil {
		return err
	}

	entry := LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), line},
				},
			},
		},
	}

	body, err := json.Marshal(entry)

	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.lokiURL, bytes.NewReader(body))

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("loki push returned %s", resp.Status)
	}

	return nil
}

func (l *LokiLogger) encodeLine(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) (string, error) {
	enc := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(enc)
	}

	logData := enc.Fields
	logData["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg
	logData["service"] = l.ServiceName

	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsValid() {
		logData["trace_id"] = spanContext.TraceID().String()
		logData["span_id"] = spanContext.SpanID().String()
	}

	line, err := json.Marshal(logData)

	if err != nil {
		return "", fmt.Errorf("marshal log line: %w", err)
	}

	return string(line), nil
}
