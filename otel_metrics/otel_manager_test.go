package otel_metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestCountersRecordThroughProvider(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	om, err := NewOtelManagerWithProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	ctx := context.Background()
	om.Metrics.TablesIntrospectedCounter.Add(ctx, 2, metric.WithAttributes(attribute.String(PeerTypeKey, "postgres")))
	om.Metrics.ErrorsEmittedCounter.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	values := make(map[string]int64)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok, m.Name)
		for _, dp := range sum.DataPoints {
			values[m.Name] += dp.Value
		}
	}
	assert.Equal(t, int64(2), values[TablesIntrospectedCounterName])
	assert.Equal(t, int64(1), values[ErrorsEmittedCounterName])
}

func TestNoopManagerWhenDisabled(t *testing.T) {
	t.Setenv("DESTKIT_OTEL_METRICS_ENABLED", "false")
	om, err := NewOtelManager(context.Background(), "destkit-test")
	require.NoError(t, err)
	om.Metrics.BufferFlushesCounter.Add(context.Background(), 1)
	assert.NoError(t, om.Close(context.Background()))
}

func TestOtelResourceMergesWithSdkDefault(t *testing.T) {
	t.Setenv("DESTKIT_DEPLOYMENT_UID", "dep-1")
	res, err := newOtelResource("destkit-test")
	require.NoError(t, err)

	serviceName, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "destkit-test", serviceName.AsString())
	deploymentUID, ok := res.Set().Value(DeploymentUidKey)
	require.True(t, ok)
	assert.Equal(t, "dep-1", deploymentUID.AsString())
}

func TestManagerWhenEnabled(t *testing.T) {
	t.Setenv("DESTKIT_OTEL_METRICS_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:1")
	om, err := NewOtelManager(context.Background(), "destkit-test")
	require.NoError(t, err)
	_, isSdk := om.MetricsProvider.(*sdkmetric.MeterProvider)
	assert.True(t, isSdk)
	require.NotNil(t, om.shutdown)
	om.Metrics.TablesIntrospectedCounter.Add(context.Background(), 1)

	// nothing listens on the endpoint, so only shutdown itself is checked
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = om.Close(ctx)
}
