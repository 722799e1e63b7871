package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/mocks"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/platform/metrics"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	l, _ := logger.NewTestLogger(t)
	cfg := &config.Config{
		Auth:       config.AuthConfig{JWTSecret: auth.TestSecret},
		Generation: config.GenerationConfig{MinSourceLength: 10, MaxSourceLength: 1000},
	}

	verifier, err := auth.NewJWTVerifier(cfg.Auth)
	require.NoError(t, err)

	generations := mocks.NewGenerationStore()
	genSvc, err := generation.NewService(mocks.NewPlaceholderGenerator(2), generations, mocks.NewErrorLogStore(),
		generation.WithLogger(l))
	require.NoError(t, err)
	cardSvc, err := service.NewFlashcardService(mocks.NewFlashcardStore(), generations, &mocks.TxRunner{}, l)
	require.NoError(t, err)

	return &application{
		config:           cfg,
		logger:           l,
		metrics:          metrics.New(),
		verifier:         verifier,
		generations:      genSvc,
		flashcardService: cardSvc,
	}
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.SignTestToken(auth.TestSecret, userID, "", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestAPIRequiresToken(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flashcards", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateAndSaveThroughRouter(t *testing.T) {
	router := newTestApplication(t).setupRouter()
	token := bearer(t, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/generations",
		strings.NewReader(`{"source_text":"Goroutines are lightweight threads managed by the Go runtime."}`))
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result generation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Flashcards, 2)

	body, err := json.Marshal(map[string]any{"flashcards": []map[string]any{{
		"front":         result.Flashcards[0].Front,
		"back":          result.Flashcards[0].Back,
		"source":        "ai-full",
		"generation_id": result.Generation.ID,
	}}})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/flashcards", strings.NewReader(string(body)))
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/flashcards", strings.NewReader(string(body)))
	req.Header.Set("Authorization", bearer(t, uuid.New()))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "another user's generation is rejected")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestApplication(t).setupRouter()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `flashgen_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	err := runMigrations(context.Background(), nil, "sideways", l)
	assert.ErrorContains(t, err, `unknown migration command "sideways"`)
}
