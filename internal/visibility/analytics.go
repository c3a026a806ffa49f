package visibility

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
)

// Analytics answers read-side queries over stored checks. Nothing is cached:
// every call recomputes from raw rows so late-landing writes show up
// immediately.
type Analytics struct {
	projects domain.ProjectRepository
	checks   domain.CheckRepository
	scores   *ScoreEngine
	trends   *TrendAnalyzer
	recs     *RecommendationGenerator
	now      func() time.Time
}

func NewAnalytics(
	projects domain.ProjectRepository,
	checks domain.CheckRepository,
	scores *ScoreEngine,
	trends *TrendAnalyzer,
	recs *RecommendationGenerator,
) *Analytics {
	return &Analytics{
		projects: projects,
		checks:   checks,
		scores:   scores,
		trends:   trends,
		recs:     recs,
		now:      time.Now,
	}
}

// resolveProject loads a project and hides its existence from non-owners.
func (a *Analytics) resolveProject(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project.UserID != userID {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	return project, nil
}

// ListChecks returns the project's stored checks, newest first.
func (a *Analytics) ListChecks(ctx context.Context, userID, projectID string, since *time.Time) ([]domain.VisibilityCheck, error) {
	project, err := a.resolveProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	checks, err := a.checks.ListByProject(ctx, project.ID, since)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}

// Trends reports the week-over-week visibility movement for a project.
func (a *Analytics) Trends(ctx context.Context, userID, projectID string) (*Trend, error) {
	project, err := a.resolveProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()
	earliest := now.Add(-2 * trendWindow)
	checks, err := a.checks.ListByProject(ctx, project.ID, &earliest)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	trend := a.trends.Trend(checks, a.scores.Signal(ctx, project.Domain), now)
	return &trend, nil
}

// Gaps lists queries where competitors show up and the brand never does.
func (a *Analytics) Gaps(ctx context.Context, userID, projectID string) ([]Gap, error) {
	project, err := a.resolveProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	checks, err := a.checks.ListByProject(ctx, project.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return FindGaps(checks), nil
}

// Recommendations assembles gap, crawl-issue, and provider-trend evidence
// into ranked action items. crawlIssues is the issue-code set from the
// project's latest crawl, supplied by the external crawling subsystem.
func (a *Analytics) Recommendations(ctx context.Context, userID, projectID string, crawlIssues []string) ([]Recommendation, error) {
	project, err := a.resolveProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	checks, err := a.checks.ListByProject(ctx, project.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return a.recs.Generate(checks, crawlIssues, a.now().UTC()), nil
}
