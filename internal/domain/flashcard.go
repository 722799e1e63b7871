package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Flashcard limits.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// FlashcardSource records how a flashcard was produced.
type FlashcardSource string

// Flashcard sources.
const (
	SourceManual   FlashcardSource = "manual"
	SourceAIFull   FlashcardSource = "ai-full"
	SourceAIEdited FlashcardSource = "ai-edited"
)

// Valid reports whether s is a known source.
func (s FlashcardSource) Valid() bool {
	switch s {
	case SourceManual, SourceAIFull, SourceAIEdited:
		return true
	}
	return false
}

// IsAI reports whether the card came out of a generation.
func (s FlashcardSource) IsAI() bool {
	return s == SourceAIFull || s == SourceAIEdited
}

// Flashcard-specific validation errors.
var (
	ErrFlashcardIDEmpty     = errors.New("flashcard ID cannot be empty")
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")
)

// Flashcard is a question/answer pair owned by a user.
type Flashcard struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	GenerationID *uuid.UUID      `json:"generation_id"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FlashcardProposal is a generated flashcard the user has not accepted yet.
type FlashcardProposal struct {
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	GenerationID uuid.UUID       `json:"generation_id"`
}

// NewFlashcard creates a validated flashcard. AI sources require the id of
// the generation the card came from; manual cards must not carry one.
func NewFlashcard(userID uuid.UUID, front, back string, source FlashcardSource, generationID *uuid.UUID) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		GenerationID: generationID,
		Front:        strings.TrimSpace(front),
		Back:         strings.TrimSpace(back),
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks the flashcard invariants.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}
	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}
	if err := validateSides(f.Front, f.Back); err != nil {
		return err
	}
	if !f.Source.Valid() {
		return NewValidationError("source", fmt.Sprintf("must be one of %s, %s, %s",
			SourceManual, SourceAIFull, SourceAIEdited))
	}
	hasGeneration := f.GenerationID != nil && *f.GenerationID != uuid.Nil
	if f.Source.IsAI() && !hasGeneration {
		return NewValidationError("generation_id", "is required for AI generated flashcards")
	}
	if f.Source == SourceManual && hasGeneration {
		return NewValidationError("generation_id", "must be empty for manual flashcards")
	}
	return nil
}

// Update replaces the card's sides. Editing an unedited AI card marks it as
// ai-edited. The card is left unchanged when the new content is invalid.
func (f *Flashcard) Update(front, back string) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if err := validateSides(front, back); err != nil {
		return err
	}
	if front == f.Front && back == f.Back {
		return nil
	}

	f.Front = front
	f.Back = back
	if f.Source == SourceAIFull {
		f.Source = SourceAIEdited
	}
	f.UpdatedAt = time.Now().UTC()
	return nil
}

func validateSides(front, back string) error {
	switch {
	case front == "":
		return NewValidationError("front", "cannot be empty")
	case utf8.RuneCountInString(front) > MaxFrontLength:
		return NewValidationError("front", fmt.Sprintf("must be at most %d characters", MaxFrontLength))
	case back == "":
		return NewValidationError("back", "cannot be empty")
	case utf8.RuneCountInString(back) > MaxBackLength:
		return NewValidationError("back", fmt.Sprintf("must be at most %d characters", MaxBackLength))
	}
	return nil
}
