package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the suggestion layer
type Metrics struct {
	// Feed injection (v1)
	SuggestionsInjected prometheus.Counter
	InjectionSkipped    *prometheus.CounterVec

	// Suggestion listing (v2)
	SuggestionPages *prometheus.CounterVec

	// Predictor client
	PredictorFailures prometheus.Counter
	PredictorLatency  prometheus.Histogram
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		SuggestionsInjected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsefeed_suggestions_injected_total",
			Help: "Total number of suggestion blocks injected into feeds",
		}),

		// reason: "ineligible", "no_candidates", "predictor_failure"
		InjectionSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefeed_suggestion_injection_skipped_total",
			Help: "Feed requests where no suggestion block was injected, by reason",
		}, []string{"reason"}),

		// mode: "fresh" or "cursor"
		SuggestionPages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsefeed_suggestion_pages_total",
			Help: "Suggestion listing pages served, by retrieval mode",
		}, []string{"mode"}),

		PredictorFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsefeed_predictor_failures_total",
			Help: "Total number of failed ranking predictor calls",
		}),

		PredictorLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulsefeed_predictor_request_duration_seconds",
			Help:    "Ranking predictor request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance (nil before InitMetrics)
func GetMetrics() *Metrics {
	return globalMetrics
}
