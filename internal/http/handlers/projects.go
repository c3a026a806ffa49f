package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type projectCreateRequest struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

type projectResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

func toProjectResponse(p domain.Project) projectResponse {
	return projectResponse{
		ID:       p.ID,
		Name:     p.Name,
		Domain:   p.Domain,
		Region:   p.Region,
		Language: p.Language,
	}
}

func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req projectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Domain = strings.TrimSpace(strings.ToLower(req.Domain))
	if req.Domain == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "domain is required")
		return
	}
	if req.Name == "" {
		req.Name = req.Domain
	}
	if req.Region == "" {
		req.Region = domain.DefaultRegion
	}
	if req.Language == "" {
		req.Language = domain.DefaultLanguage
	}
	project := domain.Project{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     req.Name,
		Domain:   req.Domain,
		Region:   strings.ToLower(req.Region),
		Language: strings.ToLower(req.Language),
	}
	if err := a.Projects.Create(r.Context(), &project); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toProjectResponse(project))
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projects, err := a.Projects.ListByUser(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	a.json(w, http.StatusOK, map[string]any{"projects": out})
}

type competitorAddRequest struct {
	Domain string `json:"domain"`
}

func (a *App) CompetitorsAdd(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	projectID := chi.URLParam(r, "project_id")
	project, err := a.Projects.GetByID(r.Context(), projectID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	if project.UserID != userID {
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	var req competitorAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Domain = strings.TrimSpace(strings.ToLower(req.Domain))
	if req.Domain == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "domain is required")
		return
	}
	competitor := domain.Competitor{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		Domain:    req.Domain,
	}
	if err := a.Projects.AddCompetitor(r.Context(), &competitor); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{
		"id":     competitor.ID,
		"domain": competitor.Domain,
	})
}
