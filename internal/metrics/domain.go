package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Auth attempt results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Domain Prometheus metrics.
var (
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estaterec",
			Name:      "auth_attempts_total",
			Help:      "Register, login and session checks by outcome",
		},
		[]string{"op", "result"},
	)

	IngestUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estaterec",
			Name:      "ingest_uploads_total",
			Help:      "CSV uploads by outcome",
		},
		[]string{"result"},
	)

	IngestRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "estaterec",
			Name:      "ingest_rows_total",
			Help:      "Property rows loaded by successful uploads",
		},
	)

	RecommendationResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "estaterec",
			Name:      "recommendations_results",
			Help:      "Number of properties returned per recommendation request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

var registerOnce sync.Once

// Register registers HTTP and domain metrics with the default registry. Must be called from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			AuthAttemptsTotal,
			IngestUploadsTotal,
			IngestRowsTotal,
			RecommendationResults,
		)
	})
}
