package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enrollment decision outcomes recorded by the metrics service.
const (
	OutcomeAccepted          = "accepted"
	OutcomeCapacityExceeded  = "capacity_exceeded"
	OutcomeDuplicate         = "duplicate_enrollment"
	OutcomeNotAuthorized     = "course_not_authorized"
	OutcomeInstanceNotFound  = "instance_not_found"
	OutcomePersistenceFailed = "persistence_failed"
)

// MetricsService encapsulates Prometheus instrumentation for the registration
// workflow.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	enrollmentDecisions *prometheus.CounterVec
	refdataLoads        prometheus.Counter
	refdataLoadDuration prometheus.Histogram
	refdataRows         *prometheus.GaugeVec
	storeDuration       *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	enrollmentDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_decisions_total",
		Help: "Enrollment attempts by validation outcome",
	}, []string{"outcome"})

	refdataLoads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refdata_loads_total",
		Help: "Total reference data loads",
	})

	refdataLoadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "refdata_load_duration_seconds",
		Help:    "Duration of reference data loads",
		Buckets: prometheus.DefBuckets,
	})

	refdataRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "refdata_rows",
		Help: "Rows in the loaded reference tables",
	}, []string{"table"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "enrollment_store_duration_seconds",
		Help:    "Duration of enrollment store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollmentDecisions, refdataLoads, refdataLoadDuration, refdataRows, storeDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		enrollmentDecisions: enrollmentDecisions,
		refdataLoads:        refdataLoads,
		refdataLoadDuration: refdataLoadDuration,
		refdataRows:         refdataRows,
		storeDuration:       storeDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordEnrollmentDecision counts one enrollment attempt by outcome.
func (m *MetricsService) RecordEnrollmentDecision(outcome string) {
	if m == nil {
		return
	}
	m.enrollmentDecisions.WithLabelValues(outcome).Inc()
}

// ObserveRefdataLoad records one reference data load with the resulting sizes.
func (m *MetricsService) ObserveRefdataLoad(duration time.Duration, authorizations, catalog int) {
	if m == nil {
		return
	}
	m.refdataLoads.Inc()
	m.refdataLoadDuration.Observe(duration.Seconds())
	m.refdataRows.WithLabelValues("authorizations").Set(float64(authorizations))
	m.refdataRows.WithLabelValues("catalog").Set(float64(catalog))
}

// ObserveStoreOperation records enrollment store timing.
func (m *MetricsService) ObserveStoreOperation(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}
