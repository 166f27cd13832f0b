// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Personalization metrics.
var (
	VouchersScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vouchers_scored_total",
		Help: "Eligible vouchers scored by the ranking engine",
	})

	VouchersIneligible = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchers_ineligible_total",
			Help: "Catalog entries excluded before scoring or matching",
		},
		[]string{"task_type"},
	)

	RecommendationRelevance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_relevance_score",
		Help:    "Relevance score of returned recommendations",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	NearbyDealsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nearby_deals_returned",
		Help:    "Number of deals returned per proximity query",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
	})

	DealAlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deal_alerts_sent_total",
			Help: "Deal alerts delivered per channel",
		},
		[]string{"channel"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_cache_lookups_total",
			Help: "Redis cache lookups by repository and result",
		},
		[]string{"repository", "result"},
	)
)
