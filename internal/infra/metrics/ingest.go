package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ingestResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_ingest_results_total",
			Help: "Image ingestion attempts by strategy (resolve/passthrough/upload/fallback) and success.",
		},
		[]string{"strategy", "success"},
	)

	ingestFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "image_ingest_fallbacks_total",
			Help: "Times the ingestion pipeline degraded to the platform's ephemeral URL.",
		},
	)
)

func init() { register(ingestResults, ingestFallbacks) }

func IngestResult(strategy string, success bool) {
	ingestResults.WithLabelValues(strategy, strconv.FormatBool(success)).Inc()
}

func IngestFallback() { ingestFallbacks.Inc() }
