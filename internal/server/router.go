package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"kidcalc/internal/calculator"
	"kidcalc/internal/handlers"
	"kidcalc/internal/observability"
	"kidcalc/internal/session"
	"kidcalc/internal/stream"
)

// Options configures the router. A nil Session leaves the /session routes
// unmounted.
type Options struct {
	Session     *session.Session
	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r)

	if opts.Session != nil {
		r.Get("/ready", handlers.Ready(opts.Session.Store()))
		session.RegisterRoutes(r, opts.Session)
		r.Method(http.MethodGet, "/session/stream", stream.NewHandler(opts.Session))
	}

	return r
}
