package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/platform/logger"
)

// GenerationService is the part of generation.Service the handlers use.
type GenerationService interface {
	Create(ctx context.Context, userID uuid.UUID, sourceText string) (*generation.Result, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) (*generation.ListResult, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error)
	ListErrorLogs(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationErrorLog, error)
	GetErrorLog(ctx context.Context, userID, id uuid.UUID) (*domain.GenerationErrorLog, error)
}

var _ GenerationService = (*generation.Service)(nil)

// SourceTextBounds limits the length of generation source text in characters.
type SourceTextBounds struct {
	Min int
	Max int
}

// GenerationHandler serves the generation and generation error log routes.
type GenerationHandler struct {
	generations GenerationService
	bounds      SourceTextBounds
	logger      *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(generations GenerationService, bounds SourceTextBounds, log *slog.Logger) *GenerationHandler {
	if generations == nil {
		panic("generation service cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for GenerationHandler")
	}
	return &GenerationHandler{
		generations: generations,
		bounds:      bounds,
		logger:      log.With(slog.String("component", "generation_handler")),
	}
}

// CreateGeneration handles POST /api/generations.
func (h *GenerationHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateGenerationRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.ValidationMessage(err), err)
		return
	}
	if err := h.checkLength(req.SourceText); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.generations.Create(r.Context(), userID, req.SourceText)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate flashcards")
		return
	}

	log.Debug("generation created",
		slog.String("generation_id", result.Generation.ID.String()),
		slog.Int("flashcards", len(result.Flashcards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

func (h *GenerationHandler) checkLength(text string) error {
	n := utf8.RuneCountInString(text)
	if h.bounds.Min > 0 && n < h.bounds.Min {
		return domain.NewValidationError("source_text", fmt.Sprintf("must be at least %d characters", h.bounds.Min))
	}
	if h.bounds.Max > 0 && n > h.bounds.Max {
		return domain.NewValidationError("source_text", fmt.Sprintf("must be at most %d characters", h.bounds.Max))
	}
	return nil
}

// ListGenerations handles GET /api/generations.
func (h *GenerationHandler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	page, limit, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.generations.List(r.Context(), userID, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list generations")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GenerationsResponse{
		Generations: result.Generations,
		Pagination:  Pagination{Page: page, Limit: limit, Total: result.Total},
	})
}

// GetGeneration handles GET /api/generations/{id}.
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	gen, err := h.generations.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get generation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, gen)
}

// ListErrorLogs handles GET /api/generation-error-logs.
func (h *GenerationHandler) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	entries, err := h.generations.ListErrorLogs(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list generation error logs")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GenerationErrorLogsResponse{ErrorLogs: entries})
}

// GetErrorLog handles GET /api/generation-error-logs/{id}.
func (h *GenerationHandler) GetErrorLog(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	entry, err := h.generations.GetErrorLog(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get generation error log")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}
