package sampler

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricUpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "adaptive_sampler",
		Name:      "update_duration_seconds",
		Help:      "Time spent recomputing the per-key sampling exponent table.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	metricEffectiveCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "adaptive_sampler",
		Name:      "effective_count",
		Help:      "Sum(value_i / multiplicity_i) over the last top-K snapshot, the controller's best estimate of spans it would emit this interval.",
	})

	metricStreamSummaryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adaptive_sampler",
		Name:      "stream_summary_offers_total",
		Help:      "Total number of Offer calls made to the live StreamSummary.",
	})

	metricDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adaptive_sampler",
		Name:      "decisions_total",
		Help:      "Sampling decisions returned by Sampler.ShouldSample, by decision.",
	}, []string{"decision"})

	// metricKeyDebugGauge is kept intentionally low-cardinality: the raw
	// SamplingKey space is unbounded (method+path), so it is exported under
	// a bounded hash bucket rather than the raw key, the same cardinality
	// guard role xxhash plays in tempo's metrics registry.
	metricKeyDebugGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "adaptive_sampler",
		Name:      "key_exponent",
		Help:      "Exponent currently assigned to a bounded hash bucket of observed sampling keys, for debugging.",
	}, []string{"key_bucket"})

	keyBucketModulus uint64 = 1024
)

func observeKeyExponent(key string, exponent uint32) {
	if key == "" {
		return
	}
	bucket := xxhash.Sum64String(key) % keyBucketModulus
	metricKeyDebugGauge.WithLabelValues(strconv.FormatUint(bucket, 16)).Set(float64(exponent))
}
