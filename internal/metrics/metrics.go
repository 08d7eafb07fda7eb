package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	PaymentsCreated         *prometheus.CounterVec
	PaymentCreateErrors     *prometheus.CounterVec
	VerificationsTotal      *prometheus.CounterVec
	GatewayRequestDuration  *prometheus.HistogramVec
	SubscriptionExtensions  prometheus.Counter
	CriticalInconsistencies *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionErrors prometheus.Counter

	// System Metrics
	ServiceUptime    prometheus.Gauge
	ServiceVersion   *prometheus.GaugeVec
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paymentservice_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paymentservice_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		PaymentsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_payments_created_total",
				Help: "Total number of payment transactions created",
			},
			[]string{"provider"},
		),
		PaymentCreateErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_payment_create_errors_total",
				Help: "Total number of payment creation errors",
			},
			[]string{"provider", "error_type"},
		),
		VerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_verifications_total",
				Help: "Total number of verify attempts by outcome",
			},
			[]string{"provider", "result"},
		),
		GatewayRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paymentservice_gateway_request_duration_seconds",
				Help:    "Duration of outbound gateway calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"provider", "operation", "status"},
		),
		SubscriptionExtensions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "paymentservice_subscription_extensions_total",
				Help: "Total number of subscription extensions granted",
			},
		),
		// Alerting target: any increase means money was captured without
		// granting the entitlement and needs manual reconciliation.
		CriticalInconsistencies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_critical_inconsistencies_total",
				Help: "Payments verified by the gateway whose local entitlement update failed",
			},
			[]string{"provider"},
		),

		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paymentservice_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paymentservice_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paymentservice_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "paymentservice_db_connection_errors_total",
				Help: "Total number of database connection errors",
			},
		),

		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paymentservice_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		ServiceVersion: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paymentservice_service_version_info",
				Help: "Service version information (labels: version, commit, build_date)",
			},
			[]string{"version", "commit", "build_date"},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paymentservice_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paymentservice_memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
			[]string{"type"},
		),

		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paymentservice_validation_errors_total",
				Help: "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paymentservice_validation_duration_seconds",
				Help:    "Duration of validation operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"endpoint"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordPaymentCreated(provider string) {
	m.PaymentsCreated.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordPaymentCreateError(provider, errorType string) {
	m.PaymentCreateErrors.WithLabelValues(provider, errorType).Inc()
}

func (m *Metrics) RecordVerification(provider, result string) {
	m.VerificationsTotal.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) RecordGatewayRequest(provider, operation, status string, duration time.Duration) {
	m.GatewayRequestDuration.WithLabelValues(provider, operation, status).Observe(duration.Seconds())
}

func (m *Metrics) RecordSubscriptionExtended() {
	m.SubscriptionExtensions.Inc()
}

func (m *Metrics) RecordCriticalInconsistency(provider string) {
	m.CriticalInconsistencies.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(endpoint string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// UpdateSystemMetrics updates system-level metrics (goroutines, uptime, memory).
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("total_alloc").Set(float64(memStats.TotalAlloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
}

// SetServiceVersion sets the service version information (only once per start).
func (m *Metrics) SetServiceVersion(version, commit, buildDate string) {
	m.ServiceVersion.WithLabelValues(version, commit, buildDate).Set(1)
}
