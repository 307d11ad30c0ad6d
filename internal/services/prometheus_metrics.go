package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	categorizationTotal       *prometheus.CounterVec
	categorizationDuration    prometheus.Histogram
	keywordsLearnedTotal      *prometheus.CounterVec
	learningQueueDepth        prometheus.Gauge
	learningDroppedTotal      *prometheus.CounterVec
	circuitBreakerState       *prometheus.GaugeVec
	itemsTotal                *prometheus.CounterVec
	openItemsTotal            prometheus.Gauge
	realtimeClientsTotal      prometheus.Gauge
	realtimeEventsTotal       *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		categorizationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categorization_total",
				Help: "Total number of item categorizations by source and category",
			},
			[]string{"source", "category"},
		),
		categorizationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "categorization_duration_milliseconds",
				Help:    "Categorization duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		keywordsLearnedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keywords_learned_total",
				Help: "Total number of keyword associations learned",
			},
			[]string{"category"},
		),
		learningQueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "learning_queue_depth",
				Help: "Current depth of the background learning queue",
			},
		),
		learningDroppedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learning_dropped_total",
				Help: "Total number of learning requests dropped because the queue was full",
			},
			[]string{"category"},
		),
		circuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		itemsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grocery_items_total",
				Help: "Total number of grocery item operations",
			},
			[]string{"operation"},
		),
		openItemsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "grocery_open_items",
				Help: "Current number of open items on the shared list",
			},
		),
		realtimeClientsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "realtime_clients",
				Help: "Current number of connected realtime clients",
			},
		),
		realtimeEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_events_total",
				Help: "Total number of item change events broadcast",
			},
			[]string{"event_type"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "categorization.performed":
		m.categorizationTotal.WithLabelValues(tags["source"], tags["category"]).Inc()
	case "keyword.learned":
		m.keywordsLearnedTotal.WithLabelValues(tags["category"]).Inc()
	case "learning.dropped":
		m.learningDroppedTotal.WithLabelValues(tags["category"]).Inc()
	case "circuit_breaker.open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(1)
	case "item.added", "item.toggled", "item.updated", "item.recategorized", "item.deleted":
		m.itemsTotal.WithLabelValues(tags["operation"]).Inc()
	case "realtime.broadcast":
		if eventType := tags["event_type"]; eventType != "" {
			m.realtimeEventsTotal.WithLabelValues(eventType).Inc()
		}
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "categorization":
		m.categorizationDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "learning.queue_depth":
		m.learningQueueDepth.Set(value)
	case "items.open":
		m.openItemsTotal.Set(value)
	case "realtime.clients":
		m.realtimeClientsTotal.Set(value)
	case "circuit_breaker.state":
		if service := tags["service"]; service != "" {
			m.circuitBreakerState.WithLabelValues(service).Set(value)
		}
	}
}
