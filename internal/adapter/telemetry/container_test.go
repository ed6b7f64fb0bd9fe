package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	teladapter "todoapi/internal/adapter/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"
)

func TestNewContainer_WithoutExporter(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Telemetry.MetricsPort = 0

	container, err := teladapter.NewContainer(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)

	container.AppMetrics.RecordTodoOperation(context.Background(), "created")

	families, err := container.PrometheusRegistry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "todo_operations_total")
	assert.Contains(t, names, "go_goroutines")

	probe := container.NewTelemetryProbe()
	_, span := probe.StartServiceSpan(context.Background(), "todo", "Create", nil)
	span.End()
	probe.RecordBusinessEvent(context.Background(), "created", "todo", 1, nil)

	assert.NoError(t, container.Shutdown(context.Background()))
}
