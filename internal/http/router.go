package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agenciaiam/crm/internal/http/activity"
	"github.com/agenciaiam/crm/internal/http/auth"
	"github.com/agenciaiam/crm/internal/http/client"
	"github.com/agenciaiam/crm/internal/http/dashboard"
	"github.com/agenciaiam/crm/internal/http/invoice"
	"github.com/agenciaiam/crm/internal/http/project"
	"github.com/agenciaiam/crm/internal/http/quote"
	"github.com/agenciaiam/crm/internal/http/task"
)

type RouterConfig struct {
	AuthSecret     []byte
	AllowedOrigins []string
}

func New(
	cfg RouterConfig,
	authV1 *auth.Handler,
	clientsV1 *client.Handler,
	quotesV1 *quote.Handler,
	projectsV1 *project.Handler,
	invoicesV1 *invoice.Handler,
	tasksV1 *task.Handler,
	activitiesV1 *activity.Handler,
	dashboardV1 *dashboard.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.AuthSecret))

			// The roster import endpoint uploads CSV, everything else is JSON.
			r.Route("/clients", clientsV1.Routes)

			r.Route("/quotes", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				quotesV1.Routes(r)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				projectsV1.Routes(r)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				invoicesV1.Routes(r)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				tasksV1.Routes(r)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				activitiesV1.Routes(r)
			})

			r.Route("/dashboard", dashboardV1.Routes)
		})
	})

	return router
}
