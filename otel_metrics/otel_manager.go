package otel_metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"

	"github.com/PeerDB-io/destkit/internal"
)

const (
	TablesIntrospectedCounterName = "tables_introspected"
	TableMismatchesCounterName    = "table_mismatches"
	ErrorsEmittedCounterName      = "errors_emitted"
	BufferFlushesCounterName      = "buffer_flushes"
)

const (
	PeerTypeKey      = "peerType"
	ErrorClassKey    = "errorClass"
	ErrorActionKey   = "errorAction"
	ErrorSourceKey   = "errorSource"
	ErrorCodeKey     = "errorCode"
	FlushTypeKey     = "flushType"
	DeploymentUidKey = "deploymentUID"
)

type Metrics struct {
	TablesIntrospectedCounter metric.Int64Counter
	TableMismatchesCounter    metric.Int64Counter
	ErrorsEmittedCounter      metric.Int64Counter
	BufferFlushesCounter      metric.Int64Counter
}

type OtelManager struct {
	MetricsProvider metric.MeterProvider
	Meter           metric.Meter
	Metrics         Metrics
	shutdown        func(context.Context) error
}

func BuildMetricName(baseName string) string {
	return internal.DestkitOtelMetricsNamespace() + baseName
}

// NewOtelManager exports over OTLP when DESTKIT_OTEL_METRICS_ENABLED is set, otherwise records into a noop provider.
func NewOtelManager(ctx context.Context, serviceName string) (*OtelManager, error) {
	if !internal.DestkitOtelMetricsEnabled() {
		return NewOtelManagerWithProvider(noop.NewMeterProvider())
	}
	provider, err := setupMetricsProvider(ctx, serviceName)
	if err != nil {
		return nil, err
	}
	om, err := NewOtelManagerWithProvider(provider)
	if err != nil {
		return nil, err
	}
	om.shutdown = provider.Shutdown
	return om, nil
}

func NewOtelManagerWithProvider(provider metric.MeterProvider) (*OtelManager, error) {
	om := &OtelManager{
		MetricsProvider: provider,
		Meter:           provider.Meter("io.peerdb.destkit"),
	}
	if err := om.setupMetrics(); err != nil {
		return nil, err
	}
	return om, nil
}

func (om *OtelManager) Close(ctx context.Context) error {
	if om == nil || om.shutdown == nil {
		return nil
	}
	return om.shutdown(ctx)
}

func (om *OtelManager) setupMetrics() error {
	var err error
	om.Metrics.TablesIntrospectedCounter, err = om.Meter.Int64Counter(BuildMetricName(TablesIntrospectedCounterName),
		metric.WithDescription("Tables whose definition was read from a peer"),
	)
	if err != nil {
		return err
	}

	om.Metrics.TableMismatchesCounter, err = om.Meter.Int64Counter(BuildMetricName(TableMismatchesCounterName),
		metric.WithDescription("Table comparisons that did not match the expected definition"),
	)
	if err != nil {
		return err
	}

	om.Metrics.ErrorsEmittedCounter, err = om.Meter.Int64Counter(BuildMetricName(ErrorsEmittedCounterName),
		metric.WithDescription("Counter of errors reported"),
	)
	if err != nil {
		return err
	}

	om.Metrics.BufferFlushesCounter, err = om.Meter.Int64Counter(BuildMetricName(BufferFlushesCounterName),
		metric.WithDescription("Record buffer flushes"),
	)
	return err
}

func newOtelResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String(DeploymentUidKey, internal.DestkitDeploymentUID()),
		),
	)
}

func setupExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	otlpMetricProtocol := internal.GetEnvString("OTEL_EXPORTER_OTLP_PROTOCOL",
		internal.GetEnvString("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL", "http/protobuf"))
	var metricExporter sdkmetric.Exporter
	var err error
	switch otlpMetricProtocol {
	case "http/protobuf":
		metricExporter, err = otlpmetrichttp.New(ctx)
	case "grpc":
		metricExporter, err = otlpmetricgrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported otel metric protocol: %s", otlpMetricProtocol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenTelemetry metrics exporter: %w", err)
	}
	return metricExporter, nil
}

func setupMetricsProvider(ctx context.Context, serviceName string) (*sdkmetric.MeterProvider, error) {
	otelResource, err := newOtelResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenTelemetry resource: %w", err)
	}
	metricExporter, err := setupExporter(ctx)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(otelResource),
	), nil
}
