package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// ProjectRepositoryPG implements domain.ProjectRepository backed by PostgreSQL.
type ProjectRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepositoryPG.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{pool: pool}
}

const projectColumns = `id, user_id, name, domain, region, language, created_at, updated_at`

// Create inserts a project.
func (r *ProjectRepositoryPG) Create(ctx context.Context, project *domain.Project) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO projects (id, user_id, name, domain, region, language)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+projectColumns+`;
`,
		project.ID,
		project.UserID,
		project.Name,
		project.Domain,
		project.Region,
		project.Language,
	)
	created, err := scanProject(row)
	if err != nil {
		return err
	}
	*project = *created
	return nil
}

// GetByID fetches a project by UUID.
func (r *ProjectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// ListByUser returns every project the user owns, oldest first.
func (r *ProjectRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// AddCompetitor tracks one more competitor domain for a project. Duplicate
// domains within a project are rejected by a unique constraint.
func (r *ProjectRepositoryPG) AddCompetitor(ctx context.Context, competitor *domain.Competitor) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO competitors (id, project_id, domain)
VALUES ($1, $2, $3)
RETURNING id, project_id, domain, created_at;
`,
		competitor.ID,
		competitor.ProjectID,
		competitor.Domain,
	)
	return row.Scan(&competitor.ID, &competitor.ProjectID, &competitor.Domain, &competitor.CreatedAt)
}

// ListCompetitors returns a project's tracked competitor domains, oldest first.
func (r *ProjectRepositoryPG) ListCompetitors(ctx context.Context, projectID string) ([]domain.Competitor, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, project_id, domain, created_at FROM competitors WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []domain.Competitor
	for rows.Next() {
		var c domain.Competitor
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Domain, &c.CreatedAt); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Domain, &p.Region, &p.Language, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
