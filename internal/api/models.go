package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/service"
)

// CreateGenerationRequest is the body of POST /api/generations. The length
// bounds of SourceText come from configuration and are checked by the handler.
type CreateGenerationRequest struct {
	SourceText string `json:"source_text" validate:"required"`
}

// FlashcardRequest is one card of a bulk create.
type FlashcardRequest struct {
	Front        string     `json:"front"         validate:"required,max=200"`
	Back         string     `json:"back"          validate:"required,max=500"`
	Source       string     `json:"source"        validate:"required,oneof=manual ai-full ai-edited"`
	GenerationID *uuid.UUID `json:"generation_id"`
}

// CreateFlashcardsRequest is the body of POST /api/flashcards.
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardRequest `json:"flashcards" validate:"required,min=1,max=100,dive"`
}

// inputs converts the request into service inputs.
func (r CreateFlashcardsRequest) inputs() []service.FlashcardInput {
	out := make([]service.FlashcardInput, 0, len(r.Flashcards))
	for _, f := range r.Flashcards {
		out = append(out, service.FlashcardInput{
			Front:        f.Front,
			Back:         f.Back,
			Source:       domain.FlashcardSource(f.Source),
			GenerationID: f.GenerationID,
		})
	}
	return out
}

// UpdateFlashcardRequest is the body of PUT /api/flashcards/{id}.
type UpdateFlashcardRequest struct {
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back"  validate:"required,max=500"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FlashcardsResponse is the body of GET /api/flashcards and POST /api/flashcards.
type FlashcardsResponse struct {
	Flashcards []*domain.Flashcard `json:"flashcards"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// GenerationsResponse is the body of GET /api/generations.
type GenerationsResponse struct {
	Generations []*domain.Generation `json:"generations"`
	Pagination  Pagination           `json:"pagination"`
}

// GenerationErrorLogsResponse is the body of GET /api/generation-error-logs.
type GenerationErrorLogsResponse struct {
	ErrorLogs []*domain.GenerationErrorLog `json:"error_logs"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}
