package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	UpsertByEmail(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// ProjectRepository defines persistence for projects and their tracked
// competitors.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	ListByUser(ctx context.Context, userID string) ([]Project, error)
	AddCompetitor(ctx context.Context, competitor *Competitor) error
	ListCompetitors(ctx context.Context, projectID string) ([]Competitor, error)
}

// CheckRepository persists visibility-check observations. Rows are
// append-only; there is no update path.
type CheckRepository interface {
	Create(ctx context.Context, check *VisibilityCheck) error
	// ListByProject returns checks for a project, newest first. A nil since
	// returns the full history.
	ListByProject(ctx context.Context, projectID string, since *time.Time) ([]VisibilityCheck, error)
	// CountForUserSince counts checks created at or after since across every
	// project the user owns. Quota usage is derived from this count, never
	// stored as a counter.
	CountForUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}
