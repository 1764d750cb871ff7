package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsTotal counts finished transcode jobs by outcome (completed, error).
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_transcode_jobs_total",
		Help: "Transcode jobs that reached a terminal state",
	}, []string{"outcome"})

	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vod_transcode_jobs_in_flight",
		Help: "Transcode jobs currently processing",
	})

	RenditionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_renditions_total",
		Help: "Rendition encodes by profile and outcome",
	}, []string{"profile", "outcome"})

	RenditionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vod_rendition_encode_duration_seconds",
		Help:    "Wall time of a single rendition encode",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
	}, []string{"profile"})

	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_dispatch_total",
		Help: "Dispatch attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	StatusLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vod_status_lookups_total",
		Help: "Status lookups by source (job, layout) and kind (single, batch)",
	}, []string{"source", "kind"})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vod_status_batch_size",
		Help:    "Number of ids per batch status request",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	})

	BatchRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vod_status_batch_rejected_total",
		Help: "Batch status requests rejected for exceeding the item cap",
	})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
