package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Trends reports the project's week-over-week visibility movement. The
// audience figures in the payload are heuristic estimates, not measurements.
func (a *App) Trends(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	trend, err := a.Analytics.Trends(r.Context(), userID, chi.URLParam(r, "project_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, trend)
}

// Gaps lists queries where competitors are mentioned and the brand never is.
func (a *App) Gaps(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	gaps, err := a.Analytics.Gaps(r.Context(), userID, chi.URLParam(r, "project_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"gaps": gaps})
}

// Recommendations returns ranked action items. The crawling subsystem passes
// the latest crawl's issue codes in the `issues` query parameter
// (comma-separated); without it only gap- and trend-based items come back.
func (a *App) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var issues []string
	if raw := r.URL.Query().Get("issues"); raw != "" {
		for _, code := range strings.Split(raw, ",") {
			if code = strings.TrimSpace(code); code != "" {
				issues = append(issues, code)
			}
		}
	}
	recs, err := a.Analytics.Recommendations(r.Context(), userID, chi.URLParam(r, "project_id"), issues)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"recommendations": recs})
}
