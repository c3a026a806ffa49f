package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/answer"
	"server/internal/visibility"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) UpsertByEmail(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

type memProjectRepo struct {
	mu          sync.Mutex
	projects    map[string]*domain.Project
	competitors map[string][]domain.Competitor
}

func (r *memProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *project
	r.projects[p.ID] = &p
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r *memProjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProjectRepo) AddCompetitor(ctx context.Context, competitor *domain.Competitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.competitors[competitor.ProjectID] = append(r.competitors[competitor.ProjectID], *competitor)
	return nil
}

func (r *memProjectRepo) ListCompetitors(ctx context.Context, projectID string) ([]domain.Competitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.competitors[projectID], nil
}

type memCheckRepo struct {
	mu     sync.Mutex
	stored []domain.VisibilityCheck
}

func (r *memCheckRepo) Create(ctx context.Context, check *domain.VisibilityCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, *check)
	return nil
}

func (r *memCheckRepo) ListByProject(ctx context.Context, projectID string, since *time.Time) ([]domain.VisibilityCheck, error) {
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

func (r *memCheckRepo) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored), nil
}

// stubRunner answers every requested provider with the same canned text.
type stubRunner struct {
	text string
}

func (s *stubRunner) Run(ctx context.Context, req answer.QueryRequest) []answer.Result {
	var out []answer.Result
	for _, p := range req.Providers {
		text := s.text
		out = append(out, answer.Result{
			Provider:       p,
			ResponseText:   &text,
			BrandMentioned: true,
		})
	}
	return out
}

type testFixture struct {
	app      *App
	projects *memProjectRepo
	checks   *memCheckRepo
	router   chi.Router
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	users := &memUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "owner@acme.com", Plan: domain.UserPlanFree},
		"u2": {ID: "u2", Email: "other@acme.com", Plan: domain.UserPlanFree},
	}}
	projects := &memProjectRepo{
		projects: map[string]*domain.Project{
			"p1": {ID: "p1", UserID: "u1", Name: "Acme", Domain: "acme.com", Region: "us", Language: "en"},
		},
		competitors: map[string][]domain.Competitor{},
	}
	checks := &memCheckRepo{}
	logger := zerolog.Nop()

	orchestrator := visibility.NewOrchestrator(
		users, projects, checks,
		visibility.NewQuotaGuard(checks, nil),
		&stubRunner{text: "Acme is a great pick."},
		visibility.NewEnricher(nil, logger),
		logger,
	)
	analytics := visibility.NewAnalytics(
		projects, checks,
		visibility.NewScoreEngine(nil, nil, logger),
		visibility.NewTrendAnalyzer(nil),
		visibility.NewRecommendationGenerator(nil),
	)
	app := NewApp(logger, users, projects, orchestrator, analytics)

	r := chi.NewRouter()
	r.Route("/v1/projects", func(r chi.Router) {
		r.Get("/", app.ProjectsList)
		r.Post("/", app.ProjectsCreate)
		r.Route("/{project_id}", func(r chi.Router) {
			r.Post("/competitors", app.CompetitorsAdd)
			r.Post("/checks", app.ChecksRun)
			r.Get("/checks", app.ChecksList)
			r.Get("/trends", app.Trends)
			r.Get("/gaps", app.Gaps)
			r.Get("/recommendations", app.Recommendations)
		})
	})
	return &testFixture{app: app, projects: projects, checks: checks, router: r}
}

// do executes a request against the fixture router as the given user. An
// empty userID leaves the request unauthenticated.
func (fx *testFixture) do(req *http.Request, userID string) *httptest.ResponseRecorder {
	if userID != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}
