package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotel_search_requests_total",
			Help: "Total number of hotel search requests",
		},
		[]string{"service", "operation"},
	)

	searchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotel_search_duration_seconds",
			Help:    "Hotel search duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"service", "operation"},
	)

	searchResultsCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotel_search_results_count",
			Help:    "Number of results returned per hotel search request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"service", "operation"},
	)

	searchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotel_search_errors_total",
			Help: "Total number of failed hotel search requests",
		},
		[]string{"service", "operation", "error_type"},
	)

	changeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotel_change_events_total",
			Help: "Total number of processed hotel change events",
		},
		[]string{"service", "kind", "outcome"},
	)
)

// Error types recorded by RecordError.
const (
	ErrorTypeValidation = "validation"
	ErrorTypeBackend    = "backend"
	ErrorTypeReduce     = "reduce"
)

// Outcomes recorded by RecordChangeEvent.
const (
	OutcomeApplied = "applied"
	OutcomeDropped = "dropped"
	OutcomeFailed  = "failed"
)

type SearchMetrics struct {
	serviceName string
}

func NewSearchMetrics(serviceName string) *SearchMetrics {
	return &SearchMetrics{
		serviceName: serviceName,
	}
}

func (sm *SearchMetrics) RecordRequest(operation string) {
	searchRequestsTotal.WithLabelValues(sm.serviceName, operation).Inc()
}

func (sm *SearchMetrics) RecordDuration(operation string, seconds float64) {
	searchDuration.WithLabelValues(sm.serviceName, operation).Observe(seconds)
}

func (sm *SearchMetrics) RecordResults(operation string, count int) {
	searchResultsCount.WithLabelValues(sm.serviceName, operation).Observe(float64(count))
}

func (sm *SearchMetrics) RecordError(operation, errorType string) {
	searchErrorsTotal.WithLabelValues(sm.serviceName, operation, errorType).Inc()
}

func (sm *SearchMetrics) RecordChangeEvent(kind, outcome string) {
	changeEventsTotal.WithLabelValues(sm.serviceName, kind, outcome).Inc()
}
