package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters exposed on /metrics.
var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "refundlens",
		Name:      "pipeline_runs_total",
		Help:      "Pipeline runs by outcome.",
	}, []string{"outcome"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "refundlens",
		Name:      "table_fetch_failures_total",
		Help:      "Table fetches that failed, by table.",
	}, []string{"table"})

	InvalidDatasetIDs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "refundlens",
		Name:      "invalid_dataset_ids_total",
		Help:      "Runs rejected because the dataset identifier was empty.",
	})
)
