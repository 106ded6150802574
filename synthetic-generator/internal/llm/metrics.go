package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthetic_generator_llm_requests_total",
			Help: "Total number of dispatched LLM requests, partitioned by provider and outcome.",
		},
		[]string{"provider", "status"},
	)
	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "synthetic_generator_llm_request_duration_seconds",
			Help:    "Histogram of LLM request durations (including retries).",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	llmFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synthetic_generator_llm_fallbacks_total",
			Help: "Number of times the dispatcher advanced past a failed provider.",
		},
	)
)
