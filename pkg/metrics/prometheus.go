// Package metrics provides Prometheus metrics for the scholarship scoring
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	ReloadApplied  = "applied"
	ReloadRejected = "rejected"
)

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	applicantsScored   prometheus.Counter
	recommendations    *prometheus.CounterVec
	awardedAmount      prometheus.Counter
	errors             *prometheus.CounterVec

	// Configuration
	configReloads *prometheus.CounterVec
	weights       *prometheus.GaugeVec
	thresholds    *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry exposed on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scholar",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Evaluation passes by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.evaluationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_duration_milliseconds",
		Help:        "Duration of a score, classify and rank pass in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.applicantsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "applicants_scored_total",
		Help:        "Applicants scored across all passes",
		ConstLabels: m.constLabels,
	})

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recommendations_total",
		Help:        "Recommendations issued by tier",
		ConstLabels: m.constLabels,
	}, []string{"tier"})

	m.awardedAmount = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "awarded_amount_total",
		Help:        "Sum of recommended scholarship amounts",
		ConstLabels: m.constLabels,
	})

	m.errors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Failures by error kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.configReloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "config_reloads_total",
		Help:        "Configuration reloads by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.weights = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "weight",
		Help:        "Current default category weight",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.thresholds = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "threshold",
		Help:        "Current default score cut point",
		ConstLabels: m.constLabels,
	}, []string{"tier"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordEvaluation records one pass.
func (m *Manager) RecordEvaluation(outcome string, durationMs float64) {
	m.evaluations.WithLabelValues(outcome).Inc()
	m.evaluationDuration.Observe(durationMs)
}

// RecordApplicantsScored adds n scored applicants.
func (m *Manager) RecordApplicantsScored(n int) {
	m.applicantsScored.Add(float64(n))
}

// RecordRecommendations adds n recommendations of tier.
func (m *Manager) RecordRecommendations(tier string, n int) {
	m.recommendations.WithLabelValues(tier).Add(float64(n))
}

// RecordAwarded adds amount to the awarded total. Negative amounts are
// ignored.
func (m *Manager) RecordAwarded(amount float64) {
	if amount > 0 {
		m.awardedAmount.Add(amount)
	}
}

// RecordError counts a failure of the given kind.
func (m *Manager) RecordError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}

// RecordConfigReload counts a reload attempt.
func (m *Manager) RecordConfigReload(result string) {
	m.configReloads.WithLabelValues(result).Inc()
}

// UpdateWeights publishes the default weights.
func (m *Manager) UpdateWeights(academic, financial, engagement float64) {
	m.weights.WithLabelValues("academic").Set(academic)
	m.weights.WithLabelValues("financial").Set(financial)
	m.weights.WithLabelValues("engagement").Set(engagement)
}

// UpdateThresholds publishes the default cut points.
func (m *Manager) UpdateThresholds(partial, full float64) {
	m.thresholds.WithLabelValues("partial").Set(partial)
	m.thresholds.WithLabelValues("full").Set(full)
}

// RecordHTTPRequest counts one HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordEvaluation records one pass on the global manager.
func RecordEvaluation(outcome string, durationMs float64) {
	globalManager.RecordEvaluation(outcome, durationMs)
}

// RecordApplicantsScored adds n scored applicants on the global manager.
func RecordApplicantsScored(n int) {
	globalManager.RecordApplicantsScored(n)
}

// RecordRecommendations adds n recommendations of tier on the global manager.
func RecordRecommendations(tier string, n int) {
	globalManager.RecordRecommendations(tier, n)
}

// RecordAwarded adds to the awarded total on the global manager.
func RecordAwarded(amount float64) {
	globalManager.RecordAwarded(amount)
}

// RecordError counts a failure on the global manager.
func RecordError(kind string) {
	globalManager.RecordError(kind)
}

// RecordConfigReload counts a reload attempt on the global manager.
func RecordConfigReload(result string) {
	globalManager.RecordConfigReload(result)
}

// UpdateWeights publishes the default weights on the global manager.
func UpdateWeights(academic, financial, engagement float64) {
	globalManager.UpdateWeights(academic, financial, engagement)
}

// UpdateThresholds publishes the default cut points on the global manager.
func UpdateThresholds(partial, full float64) {
	globalManager.UpdateThresholds(partial, full)
}

// RecordHTTPRequest counts one HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration observes one HTTP request on the global manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
