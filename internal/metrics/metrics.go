// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the analysis service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec
	Uploads       prometheus.Counter
	UploadBytes   prometheus.Histogram
	InFlight      prometheus.Gauge

	// Analysis metrics
	AnalysisFailures prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medscribe_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms to ~7 minutes
		}, []string{"stage"}),
		StageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_stage_failures_total",
			Help: "Pipeline runs aborted, by stage and error kind",
		}, []string{"stage", "kind"}),
		Uploads: f.NewCounter(prometheus.CounterOpts{
			Name: "medscribe_uploads_total",
			Help: "Total number of accepted uploads",
		}),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "medscribe_upload_size_bytes",
			Help:    "Size of accepted uploads",
			Buckets: prometheus.ExponentialBuckets(64*1024, 2, 12), // 64KB to ~128MB
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "medscribe_pipelines_in_flight",
			Help: "Pipeline runs currently in progress",
		}),
		AnalysisFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "medscribe_analysis_failures_total",
			Help: "Model analyses that returned an error text instead of a summary",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "medscribe_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medscribe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) RecordStageFailure(stage, kind string) {
	if m == nil {
		return
	}
	m.StageFailures.WithLabelValues(stage, kind).Inc()
}

func (m *Metrics) RecordUpload(size int64) {
	if m == nil {
		return
	}
	m.Uploads.Inc()
	m.UploadBytes.Observe(float64(size))
}

func (m *Metrics) PipelineStarted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

func (m *Metrics) PipelineFinished() {
	if m == nil {
		return
	}
	m.InFlight.Dec()
}

func (m *Metrics) RecordAnalysisFailure() {
	if m == nil {
		return
	}
	m.AnalysisFailures.Inc()
}

// RecordHTTPRequest records an HTTP API request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
