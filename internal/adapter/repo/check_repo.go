package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CheckRepositoryPG implements domain.CheckRepository backed by PostgreSQL.
// Competitor mentions are stored as a jsonb column; the rest maps 1:1.
type CheckRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCheckRepository creates a new CheckRepositoryPG.
func NewCheckRepository(pool *pgxpool.Pool) *CheckRepositoryPG {
	return &CheckRepositoryPG{pool: pool}
}

const checkColumns = `id, project_id, provider, query, keyword_id, response_text, brand_mentioned, url_cited, cited_url, citation_position, competitor_mentions, sentiment, brand_description, region, language, checked_at`

// Create inserts one immutable check row. There is no update path.
func (r *CheckRepositoryPG) Create(ctx context.Context, check *domain.VisibilityCheck) error {
	mentions, err := json.Marshal(check.CompetitorMentions)
	if err != nil {
		return fmt.Errorf("marshal competitor mentions: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO visibility_checks (`+checkColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`,
		check.ID,
		check.ProjectID,
		check.Provider,
		check.Query,
		check.KeywordID,
		check.ResponseText,
		check.BrandMentioned,
		check.URLCited,
		check.CitedURL,
		check.CitationPosition,
		mentions,
		check.Sentiment,
		check.BrandDescription,
		check.Region,
		check.Language,
		check.CheckedAt,
	)
	return err
}

// ListByProject returns a project's checks, newest first. A nil since returns
// the full history.
func (r *CheckRepositoryPG) ListByProject(ctx context.Context, projectID string, since *time.Time) ([]domain.VisibilityCheck, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+checkColumns+`
FROM visibility_checks
WHERE project_id = $1
  AND ($2::timestamptz IS NULL OR checked_at >= $2)
ORDER BY checked_at DESC;
`, projectID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []domain.VisibilityCheck
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, *check)
	}
	return checks, rows.Err()
}

// CountForUserSince counts checks created at or after since across every
// project the user owns.
func (r *CheckRepositoryPG) CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	row := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM visibility_checks vc
JOIN projects p ON p.id = vc.project_id
WHERE p.user_id = $1
  AND vc.checked_at >= $2;
`, userID, since)

	var total int
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanCheck(row pgx.Row) (*domain.VisibilityCheck, error) {
	var (
		c        domain.VisibilityCheck
		mentions []byte
	)
	if err := row.Scan(
		&c.ID,
		&c.ProjectID,
		&c.Provider,
		&c.Query,
		&c.KeywordID,
		&c.ResponseText,
		&c.BrandMentioned,
		&c.URLCited,
		&c.CitedURL,
		&c.CitationPosition,
		&mentions,
		&c.Sentiment,
		&c.BrandDescription,
		&c.Region,
		&c.Language,
		&c.CheckedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(mentions) > 0 {
		if err := json.Unmarshal(mentions, &c.CompetitorMentions); err != nil {
			return nil, fmt.Errorf("unmarshal competitor mentions: %w", err)
		}
	}
	return &c, nil
}
