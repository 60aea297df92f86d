package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the alert
// service.
type Metrics struct {
	AlertsGenerated *prometheus.CounterVec // labels: type, urgency
	AlertErrors     prometheus.Counter
	AlertsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Weather provider metrics.
	WeatherRequests *prometheus.CounterVec // labels: endpoint={current,forecast}, outcome={success,error}
	WeatherDuration *prometheus.HistogramVec

	// AI narrative metrics.
	AIRequests *prometheus.CounterVec // labels: outcome={success,error,invalid}
	AICache    *prometheus.CounterVec // labels: result={hit,miss}
	AIEnabled  prometheus.Gauge

	// Channel delivery metrics.
	ChannelRenders *prometheus.CounterVec // labels: channel

	RequestDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AlertsGenerated,
		m.AlertErrors,
		m.AlertsPublished,
		m.PublishErrors,
		m.WeatherRequests,
		m.WeatherDuration,
		m.AIRequests,
		m.AICache,
		m.AIEnabled,
		m.ChannelRenders,
		m.RequestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "alerts_generated_total",
			Help:      "Alerts generated, by alert type and urgency.",
		}, []string{"type", "urgency"}),
		AlertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "alert_errors_total",
			Help:      "Alert generation failures.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "alerts_published_total",
			Help:      "Alerts published to the Kafka alert topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "publish_errors_total",
			Help:      "Kafka publish failures.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		WeatherDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crop_alert",
			Name:      "weather_request_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		AIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "ai_requests_total",
			Help:      "AI narrative requests by outcome.",
		}, []string{"outcome"}),
		AICache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "ai_cache_total",
			Help:      "AI narrative cache lookups by result.",
		}, []string{"result"}),
		AIEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crop_alert",
			Name:      "ai_enabled",
			Help:      "1 when AI narrative enrichment is enabled, 0 otherwise.",
		}),
		ChannelRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_alert",
			Name:      "channel_renders_total",
			Help:      "Alert payloads rendered, by delivery channel.",
		}, []string{"channel"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crop_alert",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
	}
}
