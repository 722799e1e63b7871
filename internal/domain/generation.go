package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Generation-specific validation errors.
var (
	ErrGenerationUserIDEmpty = errors.New("generation user ID cannot be empty")
	ErrGenerationModelEmpty  = errors.New("generation model cannot be empty")
	ErrSourceTextEmpty       = errors.New("source text cannot be empty")
)

// Generation records one successful AI generation run. The source text itself
// is not stored, only its hash and length.
type Generation struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	GeneratedCount   int       `json:"generated_count"`
	DurationMS       int64     `json:"generation_duration"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HashSourceText returns the hex SHA-256 of text.
func HashSourceText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SourceTextLength returns the length of text in characters.
func SourceTextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// NewGeneration records a run over sourceText that produced generatedCount
// flashcards in duration.
func NewGeneration(userID uuid.UUID, model, sourceText string, generatedCount int, duration time.Duration) (*Generation, error) {
	if userID == uuid.Nil {
		return nil, ErrGenerationUserIDEmpty
	}
	if strings.TrimSpace(model) == "" {
		return nil, ErrGenerationModelEmpty
	}
	if strings.TrimSpace(sourceText) == "" {
		return nil, ErrSourceTextEmpty
	}
	if generatedCount < 0 {
		return nil, NewValidationError("generated_count", "cannot be negative")
	}

	now := time.Now().UTC()
	return &Generation{
		ID:               uuid.New(),
		UserID:           userID,
		Model:            model,
		SourceTextHash:   HashSourceText(sourceText),
		SourceTextLength: SourceTextLength(sourceText),
		GeneratedCount:   generatedCount,
		DurationMS:       duration.Milliseconds(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
