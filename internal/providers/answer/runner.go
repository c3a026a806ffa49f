package answer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
)

// Runner fans one query out across the requested providers concurrently.
// Every provider gets its own goroutine; a provider that errors is logged and
// omitted from the result set, never failing the batch. Result order follows
// the requested provider order, minus omissions.
type Runner struct {
	clients map[domain.Provider]Client
	logger  zerolog.Logger
}

func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{
		clients: make(map[domain.Provider]Client),
		logger:  logger,
	}
}

// Register binds a client to a provider id. Not safe to call after Run.
func (r *Runner) Register(p domain.Provider, c Client) {
	r.clients[p] = c
}

// Configured reports whether the provider has a registered client.
func (r *Runner) Configured(p domain.Provider) bool {
	_, ok := r.clients[p]
	return ok
}

// Run executes the query against every requested provider. The returned slice
// holds at most one result per requested provider.
func (r *Runner) Run(ctx context.Context, req QueryRequest) []Result {
	slots := make([]*Result, len(req.Providers))
	var wg sync.WaitGroup
	for i, p := range req.Providers {
		client, ok := r.clients[p]
		if !ok {
			metrics.ProviderQueries.WithLabelValues(string(p), "unconfigured").Inc()
			r.logger.Warn().Str("provider", string(p)).Msg("no client configured, skipping provider")
			continue
		}
		wg.Add(1)
		go func(i int, p domain.Provider, client Client) {
			defer wg.Done()
			start := time.Now()
			text, err := client.Answer(ctx, Question{
				Query:    req.Query,
				Region:   req.Region,
				Language: req.Language,
			})
			metrics.ProviderLatency.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ProviderQueries.WithLabelValues(string(p), "error").Inc()
				r.logger.Error().Err(err).Str("provider", string(p)).Str("query", req.Query).Msg("provider query failed")
				return
			}
			metrics.ProviderQueries.WithLabelValues(string(p), "ok").Inc()
			res := analyzeResponse(p, text, req.TargetDomain, req.Competitors)
			slots[i] = &res
		}(i, p, client)
	}
	wg.Wait()

	results := make([]Result, 0, len(slots))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}
