package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrorCodeGenerationFailed is recorded when a failure carries no code of
// its own.
const ErrorCodeGenerationFailed = "GENERATION_FAILED"

// maxErrorMessageLength bounds stored error messages.
const maxErrorMessageLength = 1000

// GenerationErrorLog records a failed generation attempt.
type GenerationErrorLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewGenerationErrorLog builds an error log entry. An empty code becomes
// GENERATION_FAILED and long messages are truncated.
func NewGenerationErrorLog(userID uuid.UUID, model, sourceText, code, message string) (*GenerationErrorLog, error) {
	if userID == uuid.Nil {
		return nil, ErrGenerationUserIDEmpty
	}
	if strings.TrimSpace(code) == "" {
		code = ErrorCodeGenerationFailed
	}
	if runes := []rune(message); len(runes) > maxErrorMessageLength {
		message = string(runes[:maxErrorMessageLength])
	}

	return &GenerationErrorLog{
		ID:               uuid.New(),
		UserID:           userID,
		Model:            model,
		SourceTextHash:   HashSourceText(sourceText),
		SourceTextLength: SourceTextLength(sourceText),
		ErrorCode:        code,
		ErrorMessage:     message,
		CreatedAt:        time.Now().UTC(),
	}, nil
}
