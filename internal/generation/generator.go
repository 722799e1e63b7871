package generation

import (
	"context"
	"fmt"

	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/openrouter"
)

// Generator turns source text into flashcards. *openrouter.Client satisfies it.
type Generator interface {
	SendRequest(ctx context.Context, sourceText string) ([]openrouter.Flashcard, error)

	// Model names the model recorded on each generation.
	Model() string
}

var _ Generator = (*openrouter.Client)(nil)

// Cache stores generated flashcards by key. Implementations report a miss
// as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]openrouter.Flashcard, bool, error)
	Set(ctx context.Context, key string, cards []openrouter.Flashcard) error
}

// CacheKey identifies the cards generated by model for the source text with
// the given SHA-256 hash.
func CacheKey(model, sourceHash string) string {
	return fmt.Sprintf("flashgen:generation:%s:%s", model, sourceHash)
}

// ErrorCode returns the code recorded in the error log for err: the
// ServiceError code when there is one, GENERATION_FAILED otherwise.
func ErrorCode(err error) string {
	if se, ok := openrouter.AsServiceError(err); ok {
		return se.Code()
	}
	return domain.ErrorCodeGenerationFailed
}
