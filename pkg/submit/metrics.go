package submit

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the controller's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pagelift").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for submission duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the controller's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pagelift",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the submission pipeline.
type metrics struct {
	submissionsTotal   *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	fieldsValidated    prometheus.Counter
	validationFailures prometheus.Counter
}

// Collectors are registered once per registry and shared by every
// controller using that registry, so enhancing several documents with
// metrics enabled never attempts a duplicate registration.
var (
	sharedMu sync.Mutex
	shared   = make(map[prometheus.Registerer]*metrics)
)

// newMetrics returns the submission metrics for the configured registry,
// registering them on first use. The first configuration wins per registry;
// later namespace or bucket options for the same registry are ignored.
//
// Metrics collected:
//   - pagelift_submissions_total: Counter of submission attempts by outcome
//   - pagelift_submission_duration_seconds: Histogram of attempt duration by outcome
//   - pagelift_fields_validated_total: Counter of individual field checks
//   - pagelift_validation_failures_total: Counter of failed field checks
func newMetrics(opts ...MetricsOption) *metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if m, ok := shared[config.Registry]; ok {
		return m
	}

	factory := promauto.With(config.Registry)

	m := &metrics{
		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submissions_total",
			Help:        "Total number of form submission attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		submissionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submission_duration_seconds",
			Help:        "Submission attempt duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),

		fieldsValidated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fields_validated_total",
			Help:        "Total number of individual field checks",
			ConstLabels: config.ConstLabels,
		}),

		validationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_failures_total",
			Help:        "Total number of failed field checks",
			ConstLabels: config.ConstLabels,
		}),
	}
	shared[config.Registry] = m
	return m
}

// recordOutcome records a finished attempt. Nil-safe: metrics are opt-in.
func (m *metrics) recordOutcome(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.submissionDuration.WithLabelValues(outcome).Observe(seconds)
}

// recordFieldCheck records one field check and whether it failed.
func (m *metrics) recordFieldCheck(failed bool) {
	if m == nil {
		return
	}
	m.fieldsValidated.Inc()
	if failed {
		m.validationFailures.Inc()
	}
}
