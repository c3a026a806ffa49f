package visibility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"server/internal/domain"
	"server/internal/providers/answer"
	"server/internal/providers/sentiment"
)

// fakeUserRepo serves fixed users by id.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) UpsertByEmail(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

// fakeProjectRepo serves fixed projects and tracked competitors.
type fakeProjectRepo struct {
	projects    map[string]*domain.Project
	competitors map[string][]domain.Competitor
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *domain.Project) error { return nil }

func (r *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r *fakeProjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) AddCompetitor(ctx context.Context, competitor *domain.Competitor) error {
	r.competitors[competitor.ProjectID] = append(r.competitors[competitor.ProjectID], *competitor)
	return nil
}

func (r *fakeProjectRepo) ListCompetitors(ctx context.Context, projectID string) ([]domain.Competitor, error) {
	return r.competitors[projectID], nil
}

// fakeCheckRepo stores checks in memory. failOn rejects writes for a
// provider, usage pins the derived quota count.
type fakeCheckRepo struct {
	mu       sync.Mutex
	stored   []domain.VisibilityCheck
	failOn   map[domain.Provider]error
	usage    int
	usageErr error

	lastCountSince time.Time
}

func (r *fakeCheckRepo) Create(ctx context.Context, check *domain.VisibilityCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[check.Provider]; ok {
		return err
	}
	r.stored = append(r.stored, *check)
	return nil
}

func (r *fakeCheckRepo) ListByProject(ctx context.Context, projectID string, since *time.Time) ([]domain.VisibilityCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VisibilityCheck
	for _, c := range r.stored {
		if c.ProjectID != projectID {
			continue
		}
		if since != nil && c.CheckedAt.Before(*since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCheckRepo) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCountSince = since
	if r.usageErr != nil {
		return 0, r.usageErr
	}
	return r.usage, nil
}

// fakeRunner replays canned results and records the request it got.
type fakeRunner struct {
	results []answer.Result
	lastReq answer.QueryRequest
	calls   int
}

func (r *fakeRunner) Run(ctx context.Context, req answer.QueryRequest) []answer.Result {
	r.lastReq = req
	r.calls++
	return r.results
}

// analyzerFunc adapts a function to the SentimentAnalyzer interface.
type analyzerFunc func(ctx context.Context, responseText, targetDomain string) (*sentiment.Result, error)

func (f analyzerFunc) Analyze(ctx context.Context, responseText, targetDomain string) (*sentiment.Result, error) {
	return f(ctx, responseText, targetDomain)
}
