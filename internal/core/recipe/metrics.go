package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ingest_total",
			Help: "Total number of recipe ingestion runs by outcome",
		},
		[]string{"outcome"},
	)

	ingestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_ingest_duration_seconds",
			Help:    "End-to-end recipe ingestion latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)

	parseRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_parse_repairs_total",
			Help: "Total number of model responses that parsed only after trailing separator repair",
		},
	)
)

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "InvalidRequest"
}
