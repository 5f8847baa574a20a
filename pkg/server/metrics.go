package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "connect").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "connect",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for sessions and bindings.
// A nil *Metrics records nothing.
type Metrics struct {
	sessions      prometheus.Gauge
	mounts        *prometheus.CounterVec
	unmounts      *prometheus.CounterVec
	subscriptions *prometheus.GaugeVec
	emissions     *prometheus.CounterVec
	bindingErrors *prometheus.CounterVec
	renders       *prometheus.CounterVec
	renderErrors  *prometheus.CounterVec
	renderTime    prometheus.Histogram
}

// NewMetrics registers the collectors with the configured registry.
// Registering twice with the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open sessions",
			ConstLabels: config.ConstLabels,
		}),

		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of component mounts",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		unmounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unmounts_total",
			Help:        "Total number of component unmounts",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		subscriptions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_subscriptions",
			Help:        "Number of stream subscriptions held by mounted components",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		emissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "emissions_total",
			Help:        "Total number of stream values delivered to bindings",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "binding"}),

		bindingErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binding_errors_total",
			Help:        "Total number of binding failures by stage (setup or emission)",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "stage"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of component renders that panicked",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		renderTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_duration_seconds",
			Help:        "Duration of session render passes in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) mounted(component string) {
	if m != nil {
		m.mounts.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) unmounted(component string) {
	if m != nil {
		m.unmounts.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) subscribed(component string) {
	if m != nil {
		m.subscriptions.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) released(component string) {
	if m != nil {
		m.subscriptions.WithLabelValues(component).Dec()
	}
}

func (m *Metrics) emitted(component, binding string) {
	if m != nil {
		m.emissions.WithLabelValues(component, binding).Inc()
	}
}

func (m *Metrics) bindingFailed(component string, setup bool) {
	if m == nil {
		return
	}
	stage := "emission"
	if setup {
		stage = "setup"
	}
	m.bindingErrors.WithLabelValues(component, stage).Inc()
}

func (m *Metrics) rendered(component string) {
	if m != nil {
		m.renders.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) renderFailed(component string) {
	if m != nil {
		m.renderErrors.WithLabelValues(component).Inc()
	}
}

func (m *Metrics) observeRenderPass(seconds float64) {
	if m != nil {
		m.renderTime.Observe(seconds)
	}
}
