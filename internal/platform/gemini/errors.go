package gemini

import "errors"

var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = errors.New("gemini api key cannot be empty")

	// ErrMissingModel is returned when no model name is configured.
	ErrMissingModel = errors.New("gemini model name cannot be empty")
)
