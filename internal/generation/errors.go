package generation

import "errors"

var (
	// ErrGenerationFailed wraps every error returned by the generator.
	ErrGenerationFailed = errors.New("failed to generate flashcards from text")

	// ErrInvalidRequest is returned for an empty user id or source text.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrInvalidConfig is returned when the service is built without its
	// required dependencies.
	ErrInvalidConfig = errors.New("invalid generation service configuration")
)
