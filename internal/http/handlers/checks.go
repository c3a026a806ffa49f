package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/visibility"
)

type runCheckRequest struct {
	Query       string            `json:"query"`
	Providers   []domain.Provider `json:"providers"`
	Competitors []string          `json:"competitors,omitempty"`
	KeywordID   *string           `json:"keyword_id,omitempty"`
	Region      string            `json:"region,omitempty"`
	Language    string            `json:"language,omitempty"`
}

type checkResponse struct {
	ID                 string                     `json:"id"`
	Provider           domain.Provider            `json:"provider"`
	Query              string                     `json:"query"`
	BrandMentioned     bool                       `json:"brand_mentioned"`
	URLCited           bool                       `json:"url_cited"`
	CitedURL           *string                    `json:"cited_url,omitempty"`
	CitationPosition   *int                       `json:"citation_position,omitempty"`
	CompetitorMentions []domain.CompetitorMention `json:"competitor_mentions"`
	Sentiment          *domain.Sentiment          `json:"sentiment,omitempty"`
	BrandDescription   *string                    `json:"brand_description,omitempty"`
	Region             string                     `json:"region"`
	Language           string                     `json:"language"`
	CheckedAt          time.Time                  `json:"checked_at"`
}

type writeFailureResponse struct {
	Provider domain.Provider `json:"provider"`
	Error    string          `json:"error"`
}

func toCheckResponse(c domain.VisibilityCheck) checkResponse {
	return checkResponse{
		ID:                 c.ID,
		Provider:           c.Provider,
		Query:              c.Query,
		BrandMentioned:     c.BrandMentioned,
		URLCited:           c.URLCited,
		CitedURL:           c.CitedURL,
		CitationPosition:   c.CitationPosition,
		CompetitorMentions: c.CompetitorMentions,
		Sentiment:          c.Sentiment,
		BrandDescription:   c.BrandDescription,
		Region:             c.Region,
		Language:           c.Language,
		CheckedAt:          c.CheckedAt,
	}
}

// ChecksRun fans one query out across the requested providers. The response
// is best effort: rows that failed to persist are listed separately instead
// of failing the batch.
func (a *App) ChecksRun(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req runCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	if req.Region == "" {
		req.Region = locale.Region
	}
	if req.Language == "" {
		req.Language = locale.Language
	}

	batch, err := a.Orchestrator.RunCheck(r.Context(), visibility.RunCheckParams{
		UserID:      userID,
		ProjectID:   chi.URLParam(r, "project_id"),
		Query:       req.Query,
		Providers:   req.Providers,
		Competitors: req.Competitors,
		KeywordID:   req.KeywordID,
		Region:      req.Region,
		Language:    req.Language,
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	stored := make([]checkResponse, 0, len(batch.Stored))
	for _, c := range batch.Stored {
		stored = append(stored, toCheckResponse(c))
	}
	failed := make([]writeFailureResponse, 0, len(batch.Failed))
	for _, f := range batch.Failed {
		failed = append(failed, writeFailureResponse{Provider: f.Provider, Error: "persistence_failure"})
	}
	a.json(w, http.StatusOK, map[string]any{
		"requested": len(req.Providers),
		"stored":    stored,
		"failed":    failed,
	})
}

// ChecksList returns a project's stored checks, newest first. An optional
// RFC3339 `since` query parameter bounds the window.
func (a *App) ChecksList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "validation_error", "since must be RFC3339")
			return
		}
		since = &parsed
	}
	checks, err := a.Analytics.ListChecks(r.Context(), userID, chi.URLParam(r, "project_id"), since)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	out := make([]checkResponse, 0, len(checks))
	for _, c := range checks {
		out = append(out, toCheckResponse(c))
	}
	a.json(w, http.StatusOK, map[string]any{"checks": out})
}
