package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Status values recorded on upload metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricsInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the formkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// UploadMetrics holds the instruments recorded by upload fields.
type UploadMetrics struct {
	saves    metric.Int64Counter
	bytes    metric.Int64Histogram
	duration metric.Float64Histogram
	rejected metric.Int64Counter
}

// NewUploadMetrics creates upload instruments on the given meter.
func NewUploadMetrics(meter metric.Meter) (*UploadMetrics, error) {
	saves, err := meter.Int64Counter("formkit.upload.saves",
		metric.WithDescription("Uploaded files saved through a storage backend"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating formkit.upload.saves counter: %w", err)
	}

	bytes, err := meter.Int64Histogram("formkit.upload.size",
		metric.WithDescription("Size of uploaded files"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating formkit.upload.size histogram: %w", err)
	}

	duration, err := meter.Float64Histogram("formkit.upload.duration",
		metric.WithDescription("Time spent saving uploaded files"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating formkit.upload.duration histogram: %w", err)
	}

	rejected, err := meter.Int64Counter("formkit.upload.rejected",
		metric.WithDescription("Uploaded files rejected by field validators"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating formkit.upload.rejected counter: %w", err)
	}

	return &UploadMetrics{saves: saves, bytes: bytes, duration: duration, rejected: rejected}, nil
}

// RecordSave records one backend save. size is ignored when negative.
func (m *UploadMetrics) RecordSave(ctx context.Context, backend, status string, size int64, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status),
	)
	m.saves.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
	if size >= 0 && status == StatusOK {
		m.bytes.Record(ctx, size, metric.WithAttributes(attribute.String("backend", backend)))
	}
}

// RecordRejected records a file that failed validation.
func (m *UploadMetrics) RecordRejected(ctx context.Context, field string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
}

var (
	defaultUploads     *UploadMetrics
	defaultUploadsOnce sync.Once
)

// Uploads returns upload instruments bound to the global meter provider.
func Uploads() *UploadMetrics {
	defaultUploadsOnce.Do(func() {
		m, err := NewUploadMetrics(Meter())
		if err != nil {
			panic(fmt.Sprintf("observability: %v", err))
		}
		defaultUploads = m
	})
	return defaultUploads
}
