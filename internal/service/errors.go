package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the flashcard service. The API layer maps them
// to HTTP status codes.
var (
	// ErrNoFlashcards is returned by a bulk create without any cards.
	ErrNoFlashcards = errors.New("at least one flashcard is required")

	// ErrUnknownGeneration is returned when an AI flashcard references a
	// generation that does not exist or belongs to another user.
	ErrUnknownGeneration = errors.New("flashcard references an unknown generation")
)

// FlashcardServiceError adds the failing operation to an error.
type FlashcardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *FlashcardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flashcard service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flashcard service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error.
func (e *FlashcardServiceError) Unwrap() error {
	return e.Err
}

// NewFlashcardServiceError creates a FlashcardServiceError.
func NewFlashcardServiceError(operation, message string, err error) *FlashcardServiceError {
	return &FlashcardServiceError{Operation: operation, Message: message, Err: err}
}
