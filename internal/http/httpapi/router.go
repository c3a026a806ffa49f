package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// RouterOptions carries the cross-cutting config the middleware stack needs.
type RouterOptions struct {
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultRegion   string
	DefaultLanguage string
	CountryLookup   middleware.CountryLookup
	Logger          infra.Logger
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(opts.JWTSecret),
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
			middleware.DetectLocale(opts.DefaultRegion, opts.DefaultLanguage, opts.CountryLookup),
		)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", app.ProjectsCreate)
			r.Get("/", app.ProjectsList)

			r.Route("/{project_id}", func(r chi.Router) {
				r.Post("/competitors", app.CompetitorsAdd)
				r.Post("/checks", app.ChecksRun)
				r.Get("/checks", app.ChecksList)
				r.Get("/trends", app.Trends)
				r.Get("/gaps", app.Gaps)
				r.Get("/recommendations", app.Recommendations)
			})
		})
	})

	return r
}
