package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/visibility"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Logger       infra.Logger
	Users        domain.UserRepository
	Projects     domain.ProjectRepository
	Orchestrator *visibility.Orchestrator
	Analytics    *visibility.Analytics
}

func NewApp(
	logger infra.Logger,
	users domain.UserRepository,
	projects domain.ProjectRepository,
	orchestrator *visibility.Orchestrator,
	analytics *visibility.Analytics,
) *App {
	return &App{
		Logger:       logger,
		Users:        users,
		Projects:     projects,
		Orchestrator: orchestrator,
		Analytics:    analytics,
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// domainError maps sentinel errors onto the wire contract. Unexpected errors
// are logged and surface as an opaque 500.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrPlanLimitReached):
		a.error(w, http.StatusForbidden, "plan_limit_reached", "monthly check quota exhausted")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
