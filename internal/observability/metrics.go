// Package observability exposes application metrics through an
// OpenTelemetry meter backed by a Prometheus registry.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
)

// Attribute keys shared by the recorded metrics.
var (
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrRequestType    = attribute.Key("trust.request_type")
	AttrOutcome        = attribute.Key("trust.outcome")
)

// OutcomeOK labels a signed request that passed verification and its
// handler. Failed requests are labelled with the application error code.
const OutcomeOK = "OK"

// MetricsProvider manages the OpenTelemetry meter and the metrics
// recorded by the HTTP layer and the trust pipeline. A disabled
// provider records nothing and serves 404 on its handler.
type MetricsProvider struct {
	config        *config.MetricsConfig
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	logger        *zap.Logger
	registry      *prometheus.Registry
	handler       http.Handler

	httpRequestsTotal     metric.Int64Counter
	httpRequestDuration   metric.Float64Histogram
	signedRequestsTotal   metric.Int64Counter
	signedRequestDuration metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.MetricsConfig, appCfg *config.AppConfig, logger *zap.Logger) (*MetricsProvider, error) {
	if !cfg.Enabled {
		return &MetricsProvider{
			config: cfg,
			meter:  otel.Meter(appCfg.Name),
			logger: logger,
		}, nil
	}

	registry := prometheus.NewRegistry()

	exporter, err := otelprometheus.New(
		otelprometheus.WithRegisterer(registry),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	mp := &MetricsProvider{
		config:        cfg,
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(appCfg.Name),
		logger:        logger,
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	if err := mp.initMetrics(); err != nil {
		return nil, err
	}

	logger.Info("metrics initialized",
		zap.String("service", appCfg.Name),
		zap.String("path", cfg.Path),
	)

	return mp, nil
}

func (mp *MetricsProvider) initMetrics() error {
	var err error

	mp.httpRequestsTotal, err = mp.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return err
	}

	mp.httpRequestDuration, err = mp.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	mp.signedRequestsTotal, err = mp.meter.Int64Counter(
		"signed_requests_total",
		metric.WithDescription("Total number of signed plugin requests by outcome"),
	)
	if err != nil {
		return err
	}

	mp.signedRequestDuration, err = mp.meter.Float64Histogram(
		"signed_request_duration_seconds",
		metric.WithDescription("Signed plugin request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordHTTPRequest records an HTTP request metric
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if mp.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(path),
		AttrHTTPStatusCode.Int(statusCode),
	)

	mp.httpRequestsTotal.Add(ctx, 1, attrs)
	mp.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSignedRequest records the outcome of one signed plugin request.
// requestType is the envelope's data type; outcome is OutcomeOK or the
// application error code that rejected the request.
func (mp *MetricsProvider) RecordSignedRequest(ctx context.Context, requestType, outcome string, duration time.Duration) {
	if mp.signedRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		AttrRequestType.String(requestType),
		AttrOutcome.String(outcome),
	)

	mp.signedRequestsTotal.Add(ctx, 1, attrs)
	mp.signedRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RegisterConnectionGauge registers an observable gauge reporting the
// number of connected websocket clients. count is called on every scrape.
func (mp *MetricsProvider) RegisterConnectionGauge(count func() int64) error {
	if mp.meterProvider == nil {
		return nil
	}

	gauge, err := mp.meter.Int64ObservableGauge(
		"websocket_connections",
		metric.WithDescription("Number of connected websocket clients"),
	)
	if err != nil {
		return err
	}

	_, err = mp.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, count())
		return nil
	}, gauge)
	return err
}

// Handler returns an HTTP handler for Prometheus metrics
func (mp *MetricsProvider) Handler() http.Handler {
	if mp.handler != nil {
		return mp.handler
	}
	return http.NotFoundHandler()
}

// Meter returns the meter for creating custom metrics
func (mp *MetricsProvider) Meter() metric.Meter {
	return mp.meter
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}
