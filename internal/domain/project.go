package domain

import "time"

// Project is a tracked brand: a domain plus the competitor domains it is
// measured against. A project belongs to exactly one user.
type Project struct {
	ID        string
	UserID    string
	Name      string
	Domain    string
	Region    string
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Competitor is one tracked competitor domain within a project.
type Competitor struct {
	ID        string
	ProjectID string
	Domain    string
	CreatedAt time.Time
}
