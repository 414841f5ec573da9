package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicklook_jobs_enqueued_total",
		Help: "Monitor jobs enqueued, by monitor",
	}, []string{"monitor"})

	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicklook_jobs_processed_total",
		Help: "Monitor jobs processed by the worker, by monitor and outcome",
	}, []string{"monitor", "outcome"}) // outcome=success|failure

	exposuresAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicklook_exposures_analyzed_total",
		Help: "Exposures run through the cosmic ray monitor, by instrument",
	}, []string{"instrument"})

	cosmicRaysDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicklook_cosmic_rays_detected_total",
		Help: "Cosmic ray jumps counted, by instrument",
	}, []string{"instrument"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quicklook_upstream_request_duration_seconds",
		Help:    "Latency of archive and engineering database requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})
)

func JobEnqueued(monitor string) {
	jobsEnqueued.WithLabelValues(monitor).Inc()
}

func JobProcessed(monitor string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	jobsProcessed.WithLabelValues(monitor, outcome).Inc()
}

func ExposureAnalyzed(instrument string) {
	exposuresAnalyzed.WithLabelValues(instrument).Inc()
}

func CosmicRaysDetected(instrument string, count int) {
	cosmicRaysDetected.WithLabelValues(instrument).Add(float64(count))
}

func ObserveUpstream(service, operation string, d time.Duration) {
	upstreamRequestDuration.WithLabelValues(service, operation).Observe(d.Seconds())
}
