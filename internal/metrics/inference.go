package metrics

import "github.com/prometheus/client_golang/prometheus"

// Inference Prometheus metrics.
var (
	TargetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "abcmove",
			Name:      "inference_targets_total",
			Help:      "Inference targets processed, by outcome",
		},
		[]string{"status"},
	)

	MAPFitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "abcmove",
			Name:      "map_fit_duration_seconds",
			Help:      "Truncated-normal MAP fit duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"status"},
	)

	AcceptedDraws = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "abcmove",
			Name:      "rejection_accepted_draws",
			Help:      "Number of draws retained by the rejection filter",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

var inferenceMetricsRegistered bool

// RegisterInferenceMetrics registers Prometheus inference metrics. Must be called once from main.
func RegisterInferenceMetrics() {
	if inferenceMetricsRegistered {
		return
	}
	prometheus.MustRegister(TargetsTotal)
	prometheus.MustRegister(MAPFitDuration)
	prometheus.MustRegister(AcceptedDraws)
	inferenceMetricsRegistered = true
}
