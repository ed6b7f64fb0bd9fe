package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestAppMetrics_RecordRequest(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordRequest(context.Background(), "GET", "/api/todos", "200", 15*time.Millisecond)
	metrics.RecordRequest(context.Background(), "GET", "/api/todos", "200", 5*time.Millisecond)
	metrics.RecordRequest(context.Background(), "GET", "/api/todos", "500", 5*time.Millisecond)

	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/todos", "200"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/todos", "500"))).To(Equal(1.0))
}

func TestAppMetrics_ActiveConnections(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.IncrementActiveConnections(context.Background())
	metrics.IncrementActiveConnections(context.Background())
	metrics.DecrementActiveConnections(context.Background())

	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}

func TestOTELProbe_FeedsMetrics(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(otelzap.New(zap.NewNop()), metrics)
	ctx := context.Background()

	probe.RecordRepositoryOperation(ctx, "Create", "todo", time.Millisecond, nil)
	probe.RecordRepositoryOperation(ctx, "Create", "todo", time.Millisecond, errors.New("boom"))
	probe.RecordBusinessEvent(ctx, "created", "todo", 1, map[string]interface{}{"title": "A"})

	Expect(testutil.ToFloat64(metrics.dbOperations.WithLabelValues("Create", "todo"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("created"))).To(Equal(1.0))
}

func TestOTELProbe_NilMetrics(t *testing.T) {
	RegisterTestingT(t)

	probe := NewOTELProbe(otelzap.New(zap.NewNop()), nil)
	ctx, span := probe.StartRepositorySpan(context.Background(), "List", "todo", map[string]interface{}{"db.table": "todos"})
	defer span.End()

	Expect(func() {
		probe.RecordRepositoryOperation(ctx, "List", "todo", time.Millisecond, nil)
		probe.RecordBusinessEvent(ctx, "deleted", "todo", 2, nil)
	}).ToNot(Panic())
}
