package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupTelemetry(t *testing.T) {
	origMP, origTP := otel.GetMeterProvider(), otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetMeterProvider(origMP)
		otel.SetTracerProvider(origTP)
	})

	ctx := context.Background()
	tel, err := SetupTelemetry(ctx, "", "contentflow-test")
	require.NoError(t, err)

	m, err := newOtelMetrics()
	require.NoError(t, err)
	m.RecordStep(ctx, "ingestor", time.Millisecond, nil)
	m.RecordStep(ctx, "researcher", time.Millisecond, nil)
	m.RecordRun(ctx, "success", 2, time.Millisecond)

	counters, err := tel.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counters["contentflow.step.dispatches"])
	assert.Equal(t, int64(1), counters["contentflow.run.runs"])
	_, hasHistogram := counters["contentflow.step.latency_ms"]
	assert.False(t, hasHistogram, "only counters are reported")

	require.NoError(t, tel.Shutdown(ctx))
}
