package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/service"
)

// FlashcardHandler serves the flashcard routes.
type FlashcardHandler struct {
	flashcards service.FlashcardService
	logger     *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(flashcards service.FlashcardService, log *slog.Logger) *FlashcardHandler {
	if flashcards == nil {
		panic("flashcard service cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil for FlashcardHandler")
	}
	return &FlashcardHandler{
		flashcards: flashcards,
		logger:     log.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcards handles POST /api/flashcards. All cards are stored or none.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.ValidationMessage(err), err)
		return
	}

	cards, err := h.flashcards.CreateFlashcards(r.Context(), userID, req.inputs())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, FlashcardsResponse{Flashcards: cards})
}

// ListFlashcards handles GET /api/flashcards.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	page, limit, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, total, err := h.flashcards.ListFlashcards(r.Context(), userID, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{
		Flashcards: cards,
		Pagination: &Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetFlashcard handles GET /api/flashcards/{id}.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	card, err := h.flashcards.GetFlashcard(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateFlashcard handles PUT /api/flashcards/{id}.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.ValidationMessage(err), err)
		return
	}

	card, err := h.flashcards.UpdateFlashcard(r.Context(), userID, id, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}
	log.Debug("flashcard updated", slog.String("flashcard_id", id.String()), slog.String("source", string(card.Source)))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteFlashcard handles DELETE /api/flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	if err := h.flashcards.DeleteFlashcard(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{Message: "Flashcard deleted"})
}
