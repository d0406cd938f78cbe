// Package metrics exposes booking form activity as Prometheus collectors.
//
// Metrics collected:
//   - booking_events_total: form events by kind (change, blur, submit)
//   - booking_submissions_total: submit outcomes (accepted, rejected, failed)
//   - booking_validation_failures_total: rejected submits by failing field
//   - booking_active_sessions: mounted form sessions held by the server
//   - booking_live_connections: open live channel connections
//   - booking_render_duration_seconds: HTML render latency by mode
//   - booking_websocket_errors_total: live channel errors by type
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// Submit outcomes.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "booking").
	Namespace string
	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
	// Buckets are the histogram buckets for render duration.
	Buckets []float64
	// Registry receives the collectors (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		if len(buckets) > 0 {
			c.Buckets = buckets
		}
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		if registry != nil {
			c.Registry = registry
		}
	}
}

// Metrics holds the collectors. It implements form.Observer so it can be
// attached to every controller the server mounts.
type Metrics struct {
	eventsTotal        *prometheus.CounterVec
	submissionsTotal   *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	activeSessions     prometheus.Gauge
	liveConnections    prometheus.Gauge
	renderDuration     *prometheus.HistogramVec
	wsErrors           *prometheus.CounterVec
}

var _ form.Observer = (*Metrics)(nil)

// New registers the collectors.
func New(options ...Option) *Metrics {
	config := Config{
		Namespace: "booking",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&config)
		}
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "events_total",
			Help:        "Total number of form events dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "submissions_total",
			Help:        "Submit attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "validation_failures_total",
			Help:        "Fields failing validation on rejected submits",
			ConstLabels: config.ConstLabels,
		}, []string{"field"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "active_sessions",
			Help:        "Number of mounted form sessions",
			ConstLabels: config.ConstLabels,
		}),

		liveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "live_connections",
			Help:        "Number of open live channel connections",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "render_duration_seconds",
			Help:        "Form render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"mode"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "websocket_errors_total",
			Help:        "Live channel errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Dispatched counts one form event.
func (m *Metrics) Dispatched(kind form.EventKind) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(string(kind)).Inc()
}

// SubmitRejected counts a submit blocked by validation.
func (m *Metrics) SubmitRejected(result validation.Result) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(ResultRejected).Inc()
	for field := range result {
		m.validationFailures.WithLabelValues(field).Inc()
	}
}

// SubmitAccepted counts a submit that reached the handler.
func (m *Metrics) SubmitAccepted(model.Values) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(ResultAccepted).Inc()
}

// SubmitFailed counts a handler error.
func (m *Metrics) SubmitFailed(error) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(ResultFailed).Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// LiveConnected increments the live connection gauge.
func (m *Metrics) LiveConnected() {
	if m == nil {
		return
	}
	m.liveConnections.Inc()
}

// LiveDisconnected decrements the live connection gauge.
func (m *Metrics) LiveDisconnected() {
	if m == nil {
		return
	}
	m.liveConnections.Dec()
}

// ObserveRender records how long a render took.
func (m *Metrics) ObserveRender(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// WebsocketError counts a live channel error.
func (m *Metrics) WebsocketError(kind string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(kind).Inc()
}
