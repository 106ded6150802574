package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synthetic_generator_batches_total",
			Help: "Total number of batch runs started.",
		},
	)
	itemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthetic_generator_items_total",
			Help: "Total number of batch items processed, partitioned by outcome.",
		},
		[]string{"status"},
	)
	postsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synthetic_generator_posts_created_total",
			Help: "Total number of synthetic posts persisted.",
		},
	)
	batchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synthetic_generator_batch_duration_seconds",
			Help:    "Histogram of whole-batch durations.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
