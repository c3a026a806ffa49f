package visibility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/providers/answer"
)

// ProviderRunner is the external provider-query capability: it runs one query
// against every requested provider concurrently and yields at most one result
// per provider, omitting providers that failed.
type ProviderRunner interface {
	Run(ctx context.Context, req answer.QueryRequest) []answer.Result
}

// RunCheckParams describes one check batch request.
type RunCheckParams struct {
	UserID      string
	ProjectID   string
	Query       string
	Providers   []domain.Provider
	Competitors []string // overrides the project's tracked competitors when set
	KeywordID   *string
	Region      string
	Language    string
}

// WriteFailure reports one check row that could not be persisted.
type WriteFailure struct {
	Provider domain.Provider `json:"provider"`
	Err      error           `json:"-"`
}

// BatchResult is the best-effort outcome of one check batch: the rows that
// were stored and the rows that failed to write. A batch may legitimately
// hold fewer rows than requested providers.
type BatchResult struct {
	Stored []domain.VisibilityCheck
	Failed []WriteFailure
}

// Orchestrator runs the visibility-check pipeline: precondition checks, quota
// admission, provider fan-out, sentiment enrichment, and parallel persistence.
type Orchestrator struct {
	users    domain.UserRepository
	projects domain.ProjectRepository
	checks   domain.CheckRepository
	quota    *QuotaGuard
	runner   ProviderRunner
	enricher *Enricher
	logger   zerolog.Logger
	now      func() time.Time
}

func NewOrchestrator(
	users domain.UserRepository,
	projects domain.ProjectRepository,
	checks domain.CheckRepository,
	quota *QuotaGuard,
	runner ProviderRunner,
	enricher *Enricher,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		users:    users,
		projects: projects,
		checks:   checks,
		quota:    quota,
		runner:   runner,
		enricher: enricher,
		logger:   logger,
		now:      time.Now,
	}
}

// RunCheck fans the query out across the requested providers and persists one
// check row per provider result.
//
// Ownership and quota are verified before any provider is called; those
// failures are typed (domain.ErrNotFound, domain.ErrValidation,
// domain.ErrPlanLimitReached). Past admission the batch is best effort:
// provider failures shrink the result set, enrichment failures leave
// sentiment empty, and write failures are collected in the returned
// BatchResult instead of failing the call.
func (o *Orchestrator) RunCheck(ctx context.Context, p RunCheckParams) (*BatchResult, error) {
	if len(p.Providers) == 0 {
		return nil, fmt.Errorf("%w: providers list is empty", domain.ErrValidation)
	}
	for _, provider := range p.Providers {
		if !provider.Valid() {
			return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrValidation, provider)
		}
	}
	if p.Query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	user, err := o.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	project, err := o.projects.GetByID(ctx, p.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	// Unowned projects look identical to missing ones.
	if project.UserID != user.ID {
		return nil, fmt.Errorf("project %s: %w", p.ProjectID, domain.ErrNotFound)
	}

	competitors := p.Competitors
	if competitors == nil {
		tracked, err := o.projects.ListCompetitors(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("load competitors: %w", err)
		}
		for _, c := range tracked {
			competitors = append(competitors, c.Domain)
		}
	}

	if err := o.quota.Admit(ctx, user, len(p.Providers)); err != nil {
		return nil, err
	}

	region := p.Region
	if region == "" {
		region = project.Region
	}
	if region == "" {
		region = domain.DefaultRegion
	}
	language := p.Language
	if language == "" {
		language = project.Language
	}
	if language == "" {
		language = domain.DefaultLanguage
	}

	results := o.runner.Run(ctx, answer.QueryRequest{
		Query:        p.Query,
		TargetDomain: project.Domain,
		Competitors:  competitors,
		Providers:    p.Providers,
		Region:       region,
		Language:     language,
	})
	enrichments := o.enricher.EnrichAll(ctx, results, project.Domain)

	rows := make([]domain.VisibilityCheck, len(results))
	for i, res := range results {
		rows[i] = domain.VisibilityCheck{
			ID:                 uuid.NewString(),
			ProjectID:          project.ID,
			Provider:           res.Provider,
			Query:              p.Query,
			KeywordID:          p.KeywordID,
			ResponseText:       res.ResponseText,
			BrandMentioned:     res.BrandMentioned,
			URLCited:           res.URLCited,
			CitedURL:           res.CitedURL,
			CitationPosition:   res.CitationPosition,
			CompetitorMentions: res.CompetitorMentions,
			Region:             region,
			Language:           language,
			CheckedAt:          o.now().UTC(),
		}
		if enrichments[i] != nil {
			s := enrichments[i].Sentiment
			desc := enrichments[i].BrandDescription
			rows[i].Sentiment = &s
			rows[i].BrandDescription = &desc
		}
	}

	batch := o.persist(ctx, rows)
	o.logger.Info().
		Str("project_id", project.ID).
		Str("query", p.Query).
		Int("requested", len(p.Providers)).
		Int("stored", len(batch.Stored)).
		Int("failed_writes", len(batch.Failed)).
		Msg("check batch finished")
	return batch, nil
}

// persist writes every row independently and in parallel. One failed write
// never blocks or rolls back siblings; failures are reported per row.
func (o *Orchestrator) persist(ctx context.Context, rows []domain.VisibilityCheck) *BatchResult {
	errs := make([]error, len(rows))
	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = o.checks.Create(ctx, &rows[i])
		}(i)
	}
	wg.Wait()

	batch := &BatchResult{}
	for i, err := range errs {
		provider := string(rows[i].Provider)
		if err != nil {
			metrics.ChecksStored.WithLabelValues(provider, "error").Inc()
			o.logger.Error().Err(err).Str("provider", provider).Msg("check row write failed")
			batch.Failed = append(batch.Failed, WriteFailure{
				Provider: rows[i].Provider,
				Err:      fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err),
			})
			continue
		}
		metrics.ChecksStored.WithLabelValues(provider, "ok").Inc()
		batch.Stored = append(batch.Stored, rows[i])
	}
	return batch
}
