package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"formlens/internal/config"
)

const (
	serviceName    = "formlens"
	serviceVersion = "1.0.0"
)

// Exporter exports analysis metrics to an OTEL Collector
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	analysesTotal    metric.Int64Counter
	failuresTotal    metric.Int64Counter
	qualityScoreHist metric.Int64Histogram
}

// NewExporter creates a new OTEL metrics exporter
func NewExporter(ctx context.Context, cfg config.OtelConfig) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	analysesTotal, err := meter.Int64Counter(
		"formlens_analyses_total",
		metric.WithDescription("Total number of feedback analyses"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analyses counter: %w", err)
	}

	failuresTotal, err := meter.Int64Counter(
		"formlens_check_failures_total",
		metric.WithDescription("Feedback checks that failed and returned their fallback item"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	qualityScoreHist, err := meter.Int64Histogram(
		"formlens_form_quality_score",
		metric.WithDescription("Form quality score per analysis with behavior data"),
		metric.WithUnit("{score}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating quality score histogram: %w", err)
	}

	return &Exporter{
		provider:         provider,
		analysesTotal:    analysesTotal,
		failuresTotal:    failuresTotal,
		qualityScoreHist: qualityScoreHist,
	}, nil
}

// RecordAnalysis counts one analysis and records its quality score when behavior data existed
func (e *Exporter) RecordAnalysis(ctx context.Context, hasBehaviorData bool, qualityScore int) {
	opt := metric.WithAttributes(attribute.Bool("behavior_data", hasBehaviorData))
	e.analysesTotal.Add(ctx, 1, opt)
	if hasBehaviorData {
		e.qualityScoreHist.Record(ctx, int64(qualityScore))
	}
}

// RecordDetectorFailure counts a failed check
func (e *Exporter) RecordDetectorFailure(ctx context.Context, check string) {
	e.failuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("check", check)))
}

// Close shuts down the exporter and flushes any pending metrics
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
