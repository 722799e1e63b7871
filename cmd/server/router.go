package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashgen/internal/api"
	apiMiddleware "github.com/phrazzld/flashgen/internal/api/middleware"
	"github.com/phrazzld/flashgen/internal/api/shared"
)

const healthTimeout = 2 * time.Second

// setupRouter builds the HTTP handler with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Middleware)

	generationHandler := api.NewGenerationHandler(app.generations, api.SourceTextBounds{
		Min: app.config.Generation.MinSourceLength,
		Max: app.config.Generation.MaxSourceLength,
	}, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		api.Register(r, generationHandler, flashcardHandler)
	})

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}

// handleHealth reports whether the database and the optional cache respond.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if app.db != nil {
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Error("health check: database unreachable", "error", err)
			resp.Status, resp.Database = "unavailable", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if app.cache != nil {
		resp.Cache = "ok"
		if err := app.cache.Ping(ctx); err != nil {
			app.logger.Warn("health check: cache unreachable", "error", err)
			resp.Cache = "unreachable"
		}
	}

	shared.RespondWithJSON(w, r, status, resp)
}
