package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashgen/internal/api"
	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/phrazzld/flashgen/internal/platform/cache"
	"github.com/phrazzld/flashgen/internal/platform/llm"
	"github.com/phrazzld/flashgen/internal/platform/metrics"
	"github.com/phrazzld/flashgen/internal/platform/postgres"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/service/auth"
	"github.com/phrazzld/flashgen/internal/store"
)

// application holds the server dependencies and releases them on cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cache   *cache.RedisCache
	metrics *metrics.Metrics

	verifier         auth.TokenVerifier
	generations      api.GenerationService
	flashcardService service.FlashcardService
}

// newApplication wires stores, the LLM client, the optional cache and the
// services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, l *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  l,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.verifier, err = auth.NewJWTVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	flashcardStore := postgres.NewPostgresFlashcardStore(db, l)
	generationStore := postgres.NewPostgresGenerationStore(db, l)
	errorLogStore := postgres.NewPostgresGenerationErrorLogStore(db, l)

	client, err := llm.NewClient(ctx, cfg.LLM, l.With(slog.String("component", "llm_client")),
		openrouter.WithObserver(app.metrics))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	opts := []generation.Option{generation.WithLogger(l)}
	if cfg.Cache.Enabled() {
		app.cache, err = cache.Open(ctx, cfg.Cache, l)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to generation cache: %w", err)
		}
		opts = append(opts, generation.WithCache(app.metrics.InstrumentCache(app.cache)))
		l.Info("Generation cache enabled", "ttl", app.cache.TTL())
	}

	app.generations, err = generation.NewService(client, generationStore, errorLogStore, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	app.flashcardService, err = service.NewFlashcardService(
		flashcardStore,
		generationStore,
		store.DBTxRunner{DB: db},
		l,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	return app, nil
}

// cleanup releases resources owned by the application. The database is
// closed by the caller that opened it.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("failed to close generation cache", "error", err)
		}
	}
}
