package answer

import (
	"context"

	"server/internal/domain"
)

// Question is the prompt posed to a single answer engine.
type Question struct {
	Query    string
	Region   string
	Language string
}

// Client produces the raw answer text of one answer engine for a question.
// Implementations own their own timeouts and retries.
type Client interface {
	Answer(ctx context.Context, q Question) (string, error)
}

// QueryRequest describes one visibility query fanned out across providers.
type QueryRequest struct {
	Query        string
	TargetDomain string
	Competitors  []string
	Providers    []domain.Provider
	Region       string
	Language     string
}

// Result is one provider's observation for a query. The runner emits at most
// one result per requested provider; failed providers are omitted.
type Result struct {
	Provider           domain.Provider
	BrandMentioned     bool
	URLCited           bool
	CitedURL           *string
	CitationPosition   *int
	CompetitorMentions []domain.CompetitorMention
	ResponseText       *string
}
