package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
)

// setupRouter creates the chi router: middleware chain, the /api front
// dispatcher, /health and /metrics.
func (app *application) setupRouter() (http.Handler, error) {
	dispatcher, err := api.NewDispatcher(
		api.DefaultRoutes(),
		map[string]api.ResourceHandler{
			api.ResourceUser:    api.NewUserHandler(app.userStore, app.hasher, app.logger),
			api.ResourceProduct: api.NewProductHandler(app.productStore, app.logger),
			api.ResourceLogin:   api.NewLoginHandler(app.userStore, app.hasher, app.tokens, app.logger),
		},
		app.tokens,
		app.logger,
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Apply standard middleware. Trace and recover sit early so every later
	// failure, including a panic in the metrics layer, carries a trace ID.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.NewRecoverMiddleware(app.logger))
	r.Use(apiMiddleware.NewMetricsMiddleware(app.metrics))

	// Only /api is rate limited; health checks and scrapes always get through
	r.Group(func(r chi.Router) {
		if app.limiter != nil {
			r.Use(apiMiddleware.NewRateLimitMiddleware(app.limiter, app.metrics))
		}
		// /api itself reaches the dispatcher so it can answer "Route is required"
		r.Handle("/api", dispatcher)
		r.Handle("/api/*", dispatcher)
	})

	// Health check endpoint; 503 while the database is unreachable
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if err := app.healthCheck(r.Context()); err != nil {
			app.logger.Error("Health check failed", "error", err)
			status, body = http.StatusServiceUnavailable, "Service Unavailable"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Handle("/metrics", metrics.Handler(app.registry))

	return r, nil
}
