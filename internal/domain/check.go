package domain

import "time"

// Provider identifies a generative-AI answer engine queried for brand
// visibility.
type Provider string

const (
	ProviderChatGPT    Provider = "chatgpt"
	ProviderClaude     Provider = "claude"
	ProviderGemini     Provider = "gemini"
	ProviderPerplexity Provider = "perplexity"
	// ProviderAIOverview is the search-engine "AI mode" modality. It is a
	// different surface than the conversational assistants and is aggregated
	// separately.
	ProviderAIOverview Provider = "ai_overview"
)

// AllProviders lists every supported provider in canonical order.
var AllProviders = []Provider{
	ProviderChatGPT,
	ProviderClaude,
	ProviderGemini,
	ProviderPerplexity,
	ProviderAIOverview,
}

// Valid reports whether p is a known provider identifier.
func (p Provider) Valid() bool {
	for _, known := range AllProviders {
		if p == known {
			return true
		}
	}
	return false
}

// IsAISearch reports whether the provider is the AI-mode search modality
// rather than a conversational assistant.
func (p Provider) IsAISearch() bool {
	return p == ProviderAIOverview
}

// Sentiment labels the tone of a provider response toward the brand.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is a known sentiment label.
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

// CompetitorMention records whether one tracked competitor domain appeared in
// a provider response. Domains are unique within a single check.
type CompetitorMention struct {
	Domain    string `json:"domain"`
	Mentioned bool   `json:"mentioned"`
	Position  *int   `json:"position,omitempty"`
}

// VisibilityCheck is one observation: one provider asked one query at one
// point in time. Rows are append-only; once persisted a check is never
// updated (sentiment enrichment happens before the row is first written).
type VisibilityCheck struct {
	ID                 string
	ProjectID          string
	Provider           Provider
	Query              string
	KeywordID          *string
	ResponseText       *string
	BrandMentioned     bool
	URLCited           bool
	CitedURL           *string
	CitationPosition   *int
	CompetitorMentions []CompetitorMention
	Sentiment          *Sentiment
	BrandDescription   *string
	Region             string
	Language           string
	CheckedAt          time.Time
}

const (
	DefaultRegion   = "us"
	DefaultLanguage = "en"
)
