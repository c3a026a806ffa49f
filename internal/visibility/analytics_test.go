package visibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

func newAnalyticsFixture(checks *fakeCheckRepo) *Analytics {
	projects := &fakeProjectRepo{
		projects: map[string]*domain.Project{
			"p1": {ID: "p1", UserID: "u1", Name: "Acme", Domain: "acme.com"},
		},
		competitors: map[string][]domain.Competitor{},
	}
	return NewAnalytics(
		projects,
		checks,
		NewScoreEngine(nil, nil, zerolog.Nop()),
		NewTrendAnalyzer(nil),
		NewRecommendationGenerator(nil),
	)
}

func TestAnalyticsHidesForeignProjects(t *testing.T) {
	t.Parallel()
	a := newAnalyticsFixture(&fakeCheckRepo{})
	ctx := context.Background()

	if _, err := a.ListChecks(ctx, "intruder", "p1", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ListChecks() error = %v, want ErrNotFound", err)
	}
	if _, err := a.Trends(ctx, "intruder", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Trends() error = %v, want ErrNotFound", err)
	}
	if _, err := a.Gaps(ctx, "intruder", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Gaps() error = %v, want ErrNotFound", err)
	}
	if _, err := a.Recommendations(ctx, "intruder", "p1", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Recommendations() error = %v, want ErrNotFound", err)
	}
}

func TestAnalyticsTrends(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo := &fakeCheckRepo{stored: []domain.VisibilityCheck{
		{ProjectID: "p1", Provider: domain.ProviderChatGPT, Query: "best crm", BrandMentioned: true, CheckedAt: now.Add(-time.Hour)},
		{ProjectID: "p1", Provider: domain.ProviderChatGPT, Query: "best crm", BrandMentioned: false, CheckedAt: now.Add(-8 * 24 * time.Hour)},
	}}
	a := newAnalyticsFixture(repo)
	a.now = func() time.Time { return now }

	trend, err := a.Trends(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("Trends() unexpected error: %v", err)
	}
	if trend.Direction != DirectionUp {
		t.Fatalf("Direction = %q, want up", trend.Direction)
	}
	if trend.Previous == nil {
		t.Fatal("Previous = nil, the older window holds a check")
	}
}

func TestAnalyticsGaps(t *testing.T) {
	t.Parallel()
	repo := &fakeCheckRepo{stored: []domain.VisibilityCheck{
		{
			ProjectID:          "p1",
			Provider:           domain.ProviderChatGPT,
			Query:              "alt tool",
			CompetitorMentions: []domain.CompetitorMention{{Domain: "rival.com", Mentioned: true}},
		},
	}}
	a := newAnalyticsFixture(repo)

	gaps, err := a.Gaps(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("Gaps() unexpected error: %v", err)
	}
	if len(gaps) != 1 || gaps[0].Query != "alt tool" {
		t.Fatalf("Gaps() = %+v", gaps)
	}
}

func TestAnalyticsListChecksSinceFilter(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	repo := &fakeCheckRepo{stored: []domain.VisibilityCheck{
		{ID: "new", ProjectID: "p1", CheckedAt: now.Add(-time.Hour)},
		{ID: "old", ProjectID: "p1", CheckedAt: now.Add(-72 * time.Hour)},
	}}
	a := newAnalyticsFixture(repo)

	since := now.Add(-24 * time.Hour)
	checks, err := a.ListChecks(context.Background(), "u1", "p1", &since)
	if err != nil {
		t.Fatalf("ListChecks() unexpected error: %v", err)
	}
	if len(checks) != 1 || checks[0].ID != "new" {
		t.Fatalf("ListChecks() = %+v, want the recent row only", checks)
	}
}
