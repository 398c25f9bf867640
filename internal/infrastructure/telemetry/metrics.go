package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/infrastructure/config"
)

// MeterName is the instrumentation scope of the server's own metrics.
const MeterName = "distributor-backend"

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider creates and registers a global MeterProvider with a
// periodic OTLP gRPC reader. It is a no-op unless both telemetry and
// metrics are enabled.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}

	if !cfg.Enabled || !cfg.MetricsEnabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Shutdown flushes pending metrics and stops the exporter.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Attribute keys recorded on the server's metrics.
var (
	AttrEntity    = attribute.Key("entity")
	AttrOperation = attribute.Key("operation")
	AttrKind      = attribute.Key("document_kind")
	AttrOutcome   = attribute.Key("outcome")
)

// Metrics holds the instruments recorded by the application services.
type Metrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
	documents  metric.Int64Counter
}

// NewMetrics creates the application instruments on meter. A nil meter
// falls back to the global provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(MeterName)
	}

	operations, err := meter.Int64Counter("erp.operations",
		metric.WithDescription("Master-data and document operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter erp.operations: %w", err)
	}
	duration, err := meter.Float64Histogram("erp.operation.duration",
		metric.WithDescription("Duration of master-data and document operations"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram erp.operation.duration: %w", err)
	}
	documents, err := meter.Int64Counter("erp.documents.created",
		metric.WithDescription("Trade documents created"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter erp.documents.created: %w", err)
	}

	return &Metrics{operations: operations, duration: duration, documents: documents}, nil
}

// RecordOperation records one operation on entity. A nil receiver is a no-op.
func (m *Metrics) RecordOperation(ctx context.Context, entity, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(AttrEntity.String(entity), AttrOperation.String(operation), AttrOutcome.String(outcome))
	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}

// DocumentCreated counts a newly created document of kind.
func (m *Metrics) DocumentCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.documents.Add(ctx, 1, metric.WithAttributes(AttrKind.String(kind)))
}
