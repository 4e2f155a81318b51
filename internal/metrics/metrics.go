package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MPCAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seculight_mpc_api_calls_total",
			Help: "Total Minor Planet Center requests",
		},
		[]string{"endpoint", "status"},
	)

	MPCAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seculight_mpc_api_latency_seconds",
			Help:    "Minor Planet Center request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RecordsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seculight_records_fetched_total",
			Help: "Raw rows parsed out of MPC responses",
		},
		[]string{"kind"},
	)

	RecordsReduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seculight_records_reduced_total",
			Help: "Observations successfully reduced to absolute magnitude",
		},
	)

	RecordsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seculight_records_discarded_total",
			Help: "Observations excluded from the reduced dataset",
		},
		[]string{"reason"},
	)
)
