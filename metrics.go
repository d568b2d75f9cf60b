// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathmatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultMatchDurationBuckets are histogram boundaries for match latency in
// seconds. Matching is an in-memory tree walk, so the boundaries cover the
// sub-microsecond to low-millisecond range.
var DefaultMatchDurationBuckets = []float64{
	0.0000005, 0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.001, 0.005,
}

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., exporter initialization failed).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the recorder. Events
// report errors, warnings and informational messages about the metrics
// system's operation; the engine itself never logs on the match path.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events. Implementations can
// log events, forward them to monitoring systems, or take custom actions
// based on event type.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the
// provided slog.Logger. If logger is nil, it returns a no-op handler.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider uses the Prometheus exporter for metrics (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses the OTLP HTTP exporter for metrics.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses the stdout exporter for metrics (development/testing).
	StdoutProvider Provider = "stdout"
)

// Recorder holds OpenTelemetry metrics configuration and instruments for the
// engine's operations. All methods are safe for concurrent use, and every
// recording method tolerates a nil receiver, so an unconfigured router pays
// only a nil check.
//
// The recorder never sets the global OpenTelemetry meter provider and never
// opens a listening socket: Handler exposes the Prometheus scrape endpoint
// for the caller to mount wherever it serves HTTP.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	matchDuration metric.Float64Histogram
	matchCount    metric.Int64Counter
	generateCount metric.Int64Counter
	routesActive  metric.Int64UpDownCounter

	durationBuckets []float64
	exportInterval  time.Duration

	serviceName    string
	serviceVersion string
	otlpEndpoint   string

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	provider         Provider
	providerSetCount int
	customProvider   bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrometheus selects the Prometheus provider. Metrics are registered in
// a private registry; serve them via Handler.
func WithPrometheus() RecorderOption {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP selects the OTLP HTTP provider pushing to the given collector
// endpoint (e.g. "http://localhost:4318").
func WithOTLP(endpoint string) RecorderOption {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
		r.providerSetCount++
	}
}

// WithStdout selects the stdout provider, printing metrics on the export
// interval. Intended for development and testing.
func WithStdout() RecorderOption {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider uses a caller-managed meter provider instead of a
// built-in exporter. The caller owns its lifecycle; Shutdown will not touch
// it.
func WithMeterProvider(mp metric.MeterProvider) RecorderOption {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customProvider = true
	}
}

// WithExportInterval sets the export interval for push-based providers
// (OTLP, stdout). Ignored by Prometheus, which is scraped on demand.
func WithExportInterval(interval time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithServiceInfo sets the service.name and service.version attributes
// attached to every measurement.
func WithServiceInfo(name, version string) RecorderOption {
	return func(r *Recorder) {
		r.serviceName = name
		r.serviceVersion = version
	}
}

// WithMatchDurationBuckets overrides the match-latency histogram boundaries.
func WithMatchDurationBuckets(buckets []float64) RecorderOption {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithEventHandler sets the handler for internal operational events.
func WithEventHandler(handler EventHandler) RecorderOption {
	return func(r *Recorder) {
		r.eventHandler = handler
	}
}

// WithRecorderLogger routes internal operational events to a slog.Logger.
// Shorthand for WithEventHandler(DefaultEventHandler(logger)).
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.eventHandler = DefaultEventHandler(logger)
	}
}

// NewRecorder creates a metrics recorder with the given options. The zero
// configuration uses the Prometheus provider with a private registry.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     "pathmatch",
		serviceVersion:  "1.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultMatchDurationBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.providerSetCount > 1 {
		return nil, fmt.Errorf("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.serviceName == "" || r.serviceVersion == "" {
		return nil, fmt.Errorf("service name and version cannot be empty")
	}
	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return r, nil
}

// MustNewRecorder is like NewRecorder but panics on initialization failure.
func MustNewRecorder(opts ...RecorderOption) *Recorder {
	r, err := NewRecorder(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize metrics: %v", err))
	}
	return r
}

func (r *Recorder) initializeProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.emitDebug("using custom user-provided meter provider")
		return r.initializeInstruments()
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheusProvider()
	case OTLPProvider:
		return r.initOTLPProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
}

// initPrometheusProvider uses a private registry so multiple recorders can
// coexist in one process without collector registration conflicts.
func (r *Recorder) initPrometheusProvider() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)
	return r.initializeInstruments()
}

func (r *Recorder) initOTLPProvider() error {
	opts := []otlpmetrichttp.Option{}

	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false
		if strings.HasPrefix(endpoint, "http://") {
			endpoint = strings.TrimPrefix(endpoint, "http://")
			insecure = true
		} else if strings.HasPrefix(endpoint, "https://") {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		if idx := strings.Index(endpoint, "/"); idx != -1 {
			endpoint = endpoint[:idx]
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)
	return r.initializeInstruments()
}

func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)
	return r.initializeInstruments()
}

func (r *Recorder) initializeInstruments() error {
	r.meter = r.meterProvider.Meter("rivaas.dev/pathmatch")

	var err error
	r.matchDuration, err = r.meter.Float64Histogram(
		"pathmatch.match.duration",
		metric.WithDescription("Match lookup duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create match duration histogram: %w", err)
	}

	r.matchCount, err = r.meter.Int64Counter(
		"pathmatch.match.total",
		metric.WithDescription("Total match lookups by outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create match counter: %w", err)
	}

	r.generateCount, err = r.meter.Int64Counter(
		"pathmatch.generate.total",
		metric.WithDescription("Total reverse lookups by outcome and cache disposition"),
	)
	if err != nil {
		return fmt.Errorf("failed to create generate counter: %w", err)
	}

	r.routesActive, err = r.meter.Int64UpDownCounter(
		"pathmatch.routes.active",
		metric.WithDescription("Registered routes in the live snapshot"),
	)
	if err != nil {
		return fmt.Errorf("failed to create routes gauge: %w", err)
	}

	return nil
}

// Handler returns the Prometheus scrape handler. Only available with the
// Prometheus provider.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.provider != PrometheusProvider || r.prometheusHandler == nil {
		return nil, fmt.Errorf("handler only available with Prometheus provider, current provider: %s", r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the configured metrics provider.
func (r *Recorder) Provider() Provider { return r.provider }

// ForceFlush immediately exports pending metric data. Useful for push-based
// providers before a checkpoint; a no-op for Prometheus.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	return nil
}

// Shutdown flushes and shuts down the built-in meter provider. A
// caller-supplied provider is left untouched.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.customProvider {
		r.emitDebug("skipping shutdown of custom meter provider (managed by caller)")
		return nil
	}
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}

func (r *Recorder) recordMatch(d time.Duration, hit bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	attrs := metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
		attribute.String("outcome", outcome),
	)
	ctx := context.Background()
	r.matchDuration.Record(ctx, d.Seconds(), attrs)
	r.matchCount.Add(ctx, 1, attrs)
}

func (r *Recorder) recordGenerate(hit, cached bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.generateCount.Add(context.Background(), 1, metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
		attribute.String("outcome", outcome),
		attribute.Bool("cache", cached),
	))
}

func (r *Recorder) recordRoutes(delta int64) {
	if r == nil {
		return
	}
	r.routesActive.Add(context.Background(), delta, metric.WithAttributes(
		r.serviceNameAttr,
		r.serviceVersionAttr,
	))
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r != nil && r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r != nil && r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
