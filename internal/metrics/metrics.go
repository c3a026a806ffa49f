package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderQueries counts answer-engine queries by provider and outcome
	// (ok, error, unconfigured).
	ProviderQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visibility_provider_queries_total",
		Help: "Answer engine queries by provider and outcome",
	}, []string{"provider", "outcome"})

	// ChecksStored counts visibility-check rows by write outcome.
	ChecksStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visibility_checks_stored_total",
		Help: "Visibility check rows by persistence outcome",
	}, []string{"provider", "outcome"})

	// EnrichmentCalls counts sentiment enrichment attempts by outcome
	// (ok, error, skipped).
	EnrichmentCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visibility_enrichment_calls_total",
		Help: "Sentiment enrichment calls by outcome",
	}, []string{"outcome"})

	// QuotaDenials counts check batches denied at admission by plan.
	QuotaDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visibility_quota_denials_total",
		Help: "Check batches denied by the monthly plan quota",
	}, []string{"plan"})

	// ProviderLatency observes answer-engine round-trip time.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "visibility_provider_latency_seconds",
		Help:    "Answer engine query latency",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"provider"})
)
