package visibility

import (
	"fmt"
	"strings"
	"time"

	"server/internal/domain"
)

// PlatformIssueCodes maps each answer engine to the on-page issue codes known
// to affect whether it can crawl and cite a site. Issue codes come from the
// external crawl subsystem.
var PlatformIssueCodes = map[domain.Provider][]string{
	domain.ProviderChatGPT:    {"blocked_gptbot", "missing_structured_data", "thin_content"},
	domain.ProviderClaude:     {"blocked_claudebot", "thin_content", "missing_meta_description"},
	domain.ProviderGemini:     {"blocked_google_extended", "missing_structured_data", "poor_core_web_vitals"},
	domain.ProviderPerplexity: {"blocked_perplexitybot", "slow_response", "missing_structured_data"},
	domain.ProviderAIOverview: {"missing_structured_data", "poor_core_web_vitals", "slow_response", "missing_faq_schema"},
}

// Recommendation is one ranked action item. Lower Priority sorts first.
type Recommendation struct {
	Kind     string          `json:"kind"` // content_gap | platform_issue | provider_trend
	Provider domain.Provider `json:"provider,omitempty"`
	Query    string          `json:"query,omitempty"`
	Title    string          `json:"title"`
	Detail   string          `json:"detail"`
	Priority int             `json:"priority"`
}

// RecommendationInput is the assembled evidence handed to the ranking policy.
type RecommendationInput struct {
	Gaps           []Gap
	PlatformIssues map[domain.Provider][]string
	ProviderTrends []ProviderTrend
}

// Ranker turns assembled evidence into ranked action items. The ranking
// policy is intentionally pluggable; this package only guarantees the three
// input sets are assembled correctly.
type Ranker interface {
	Rank(in RecommendationInput) []Recommendation
}

// RecommendationGenerator assembles gap, crawl-issue, and provider-trend
// evidence for a project and delegates ranking.
type RecommendationGenerator struct {
	ranker Ranker
}

func NewRecommendationGenerator(ranker Ranker) *RecommendationGenerator {
	if ranker == nil {
		ranker = defaultRanker{}
	}
	return &RecommendationGenerator{ranker: ranker}
}

// Generate builds the three input sets from stored checks plus the latest
// crawl's issue codes and returns the ranked recommendations.
func (g *RecommendationGenerator) Generate(checks []domain.VisibilityCheck, crawlIssues []string, now time.Time) []Recommendation {
	return g.ranker.Rank(RecommendationInput{
		Gaps:           FindGaps(checks),
		PlatformIssues: IntersectPlatformIssues(crawlIssues),
		ProviderTrends: ProviderTrends(checks, now),
	})
}

// IntersectPlatformIssues restricts the static platform table to the issue
// codes actually present in the latest crawl. Providers whose intersection is
// empty are omitted.
func IntersectPlatformIssues(crawlIssues []string) map[domain.Provider][]string {
	present := make(map[string]bool, len(crawlIssues))
	for _, code := range crawlIssues {
		present[code] = true
	}
	issues := make(map[domain.Provider][]string)
	for _, p := range domain.AllProviders {
		var matched []string
		for _, code := range PlatformIssueCodes[p] {
			if present[code] {
				matched = append(matched, code)
			}
		}
		if len(matched) > 0 {
			issues[p] = matched
		}
	}
	return issues
}

// defaultRanker orders content gaps first, then crawl issues, then downward
// provider trends. Rising or flat providers generate nothing.
type defaultRanker struct{}

func (defaultRanker) Rank(in RecommendationInput) []Recommendation {
	var recs []Recommendation
	for _, gap := range in.Gaps {
		recs = append(recs, Recommendation{
			Kind:     "content_gap",
			Query:    gap.Query,
			Title:    fmt.Sprintf("Create content answering %q", gap.Query),
			Detail:   fmt.Sprintf("Competitors cited for this query: %s. The brand is never mentioned.", strings.Join(gap.CompetitorsCited, ", ")),
			Priority: 1,
		})
	}
	for _, p := range domain.AllProviders {
		codes, ok := in.PlatformIssues[p]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Kind:     "platform_issue",
			Provider: p,
			Title:    fmt.Sprintf("Fix on-page issues affecting %s", p),
			Detail:   fmt.Sprintf("Latest crawl found: %s.", strings.Join(codes, ", ")),
			Priority: 2,
		})
	}
	for _, t := range in.ProviderTrends {
		if t.Direction != DirectionDown {
			continue
		}
		recs = append(recs, Recommendation{
			Kind:     "provider_trend",
			Provider: t.Provider,
			Title:    fmt.Sprintf("Mention rate on %s is falling", t.Provider),
			Detail:   fmt.Sprintf("Week-over-week mention rate moved from %.0f%% to %.0f%%.", 100*t.PreviousRate, 100*t.CurrentRate),
			Priority: 3,
		})
	}
	return recs
}
