package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/visibility"
)

func TestTrendsEndpoint(t *testing.T) {
	fx := newTestFixture(t)
	now := time.Now().UTC()
	fx.checks.stored = []domain.VisibilityCheck{
		{ProjectID: "p1", Provider: domain.ProviderChatGPT, Query: "best crm", BrandMentioned: true, CheckedAt: now.Add(-time.Hour)},
		{ProjectID: "p1", Provider: domain.ProviderChatGPT, Query: "best crm", BrandMentioned: false, CheckedAt: now.Add(-8 * 24 * time.Hour)},
	}

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/v1/projects/p1/trends", nil), "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var trend visibility.Trend
	if err := json.Unmarshal(rec.Body.Bytes(), &trend); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if trend.Direction != visibility.DirectionUp {
		t.Fatalf("Direction = %q, want up", trend.Direction)
	}
	if trend.Previous == nil {
		t.Fatal("Previous missing from payload")
	}
	if trend.Period == "" {
		t.Fatal("Period missing from payload")
	}
}

func TestGapsEndpoint(t *testing.T) {
	fx := newTestFixture(t)
	fx.checks.stored = []domain.VisibilityCheck{
		{
			ProjectID:          "p1",
			Provider:           domain.ProviderChatGPT,
			Query:              "alt tool",
			CompetitorMentions: []domain.CompetitorMention{{Domain: "rival.com", Mentioned: true}},
			CheckedAt:          time.Now().UTC(),
		},
	}

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/v1/projects/p1/gaps", nil), "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Gaps []visibility.Gap `json:"gaps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Gaps) != 1 || resp.Gaps[0].Query != "alt tool" {
		t.Fatalf("gaps = %+v", resp.Gaps)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	fx := newTestFixture(t)
	fx.checks.stored = []domain.VisibilityCheck{
		{
			ProjectID:          "p1",
			Provider:           domain.ProviderChatGPT,
			Query:              "alt tool",
			CompetitorMentions: []domain.CompetitorMention{{Domain: "rival.com", Mentioned: true}},
			CheckedAt:          time.Now().UTC(),
		},
	}

	rec := fx.do(httptest.NewRequest(http.MethodGet,
		"/v1/projects/p1/recommendations?issues=blocked_gptbot,%20missing_faq_schema", nil), "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Recommendations []visibility.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// One content gap plus the crawl issues for the two affected surfaces.
	if len(resp.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3: %+v", len(resp.Recommendations), resp.Recommendations)
	}
	if resp.Recommendations[0].Kind != "content_gap" {
		t.Fatalf("recommendations[0] = %+v, gaps rank first", resp.Recommendations[0])
	}
}

func TestAnalyticsEndpointsHideForeignProjects(t *testing.T) {
	fx := newTestFixture(t)
	for _, path := range []string{
		"/v1/projects/p1/trends",
		"/v1/projects/p1/gaps",
		"/v1/projects/p1/recommendations",
	} {
		rec := fx.do(httptest.NewRequest(http.MethodGet, path, nil), "u2")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", path, rec.Code)
		}
	}
}
