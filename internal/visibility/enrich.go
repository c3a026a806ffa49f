package visibility

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"server/internal/metrics"
	"server/internal/providers/answer"
	"server/internal/providers/sentiment"
)

// SentimentAnalyzer is the external sentiment capability.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, responseText, targetDomain string) (*sentiment.Result, error)
}

// Enricher adds best-effort sentiment to provider results. A nil analyzer
// (no credential configured) skips every call.
type Enricher struct {
	analyzer SentimentAnalyzer
	logger   zerolog.Logger
}

func NewEnricher(analyzer SentimentAnalyzer, logger zerolog.Logger) *Enricher {
	return &Enricher{analyzer: analyzer, logger: logger}
}

// EnrichAll runs sentiment analysis over every qualifying result
// concurrently. The returned slice aligns 1:1 with results by position;
// entries are nil when the result did not qualify or its call failed. An
// individual failure never aborts sibling calls or the batch.
func (e *Enricher) EnrichAll(ctx context.Context, results []answer.Result, targetDomain string) []*sentiment.Result {
	out := make([]*sentiment.Result, len(results))
	if e.analyzer == nil {
		for range results {
			metrics.EnrichmentCalls.WithLabelValues("skipped").Inc()
		}
		return out
	}

	var wg sync.WaitGroup
	for i, res := range results {
		if !res.BrandMentioned || res.ResponseText == nil {
			metrics.EnrichmentCalls.WithLabelValues("skipped").Inc()
			continue
		}
		wg.Add(1)
		go func(i int, provider string, text string) {
			defer wg.Done()
			enriched, err := e.analyzer.Analyze(ctx, text, targetDomain)
			if err != nil {
				metrics.EnrichmentCalls.WithLabelValues("error").Inc()
				e.logger.Warn().Err(err).Str("provider", provider).Msg("sentiment enrichment failed")
				return
			}
			metrics.EnrichmentCalls.WithLabelValues("ok").Inc()
			out[i] = enriched
		}(i, string(res.Provider), *res.ResponseText)
	}
	wg.Wait()
	return out
}
