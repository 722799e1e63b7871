package openrouter

import (
	"errors"
	"fmt"
)

// Kind classifies a ServiceError.
type Kind string

// Error kinds produced by the client.
const (
	KindMissingAPIKey         Kind = "MISSING_API_KEY"
	KindMissingUserInput      Kind = "MISSING_USER_INPUT"
	KindAPIError              Kind = "API_ERROR"
	KindMissingChoices        Kind = "MISSING_CHOICES"
	KindMissingContent        Kind = "MISSING_CONTENT"
	KindInvalidResponseFormat Kind = "INVALID_RESPONSE_FORMAT"
	KindJSONParse             Kind = "JSON_PARSE_ERROR"
	KindSchemaValidation      Kind = "SCHEMA_VALIDATION_ERROR"
	KindResponseParsing       Kind = "RESPONSE_PARSING_ERROR"
	KindMaxRetriesExceeded    Kind = "MAX_RETRIES_EXCEEDED"
	KindInvalidConfiguration  Kind = "INVALID_CONFIGURATION"
	KindRequestCancelled      Kind = "REQUEST_CANCELLED"
)

// Sentinels for errors.Is checks. A sentinel matches any ServiceError of the
// same kind; ErrAPI matches API errors of every status.
var (
	ErrMissingAPIKey         = &ServiceError{Kind: KindMissingAPIKey, Message: "API key is required"}
	ErrMissingUserInput      = &ServiceError{Kind: KindMissingUserInput, Message: "User input is required"}
	ErrAPI                   = &ServiceError{Kind: KindAPIError, Message: "API request failed"}
	ErrMissingChoices        = &ServiceError{Kind: KindMissingChoices, Message: "No choices in API response"}
	ErrMissingContent        = &ServiceError{Kind: KindMissingContent, Message: "Missing content in API response"}
	ErrInvalidResponseFormat = &ServiceError{Kind: KindInvalidResponseFormat, Message: "Invalid API response format"}
	ErrJSONParse             = &ServiceError{Kind: KindJSONParse, Message: "Failed to parse JSON response"}
	ErrSchemaValidation      = &ServiceError{Kind: KindSchemaValidation, Message: "Response does not match expected schema"}
	ErrResponseParsing       = &ServiceError{Kind: KindResponseParsing, Message: "Error parsing API response"}
	ErrMaxRetriesExceeded    = &ServiceError{Kind: KindMaxRetriesExceeded, Message: "Request failed after retries"}
	ErrInvalidConfiguration  = &ServiceError{Kind: KindInvalidConfiguration, Message: "Invalid client configuration"}
	ErrRequestCancelled      = &ServiceError{Kind: KindRequestCancelled, Message: "Request cancelled"}
)

// ServiceError is the single error type returned by the client. Details holds
// an optional diagnostic payload and never contains the API key.
type ServiceError struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("openrouter: %s (%s): %v", e.Message, e.Code(), e.Err)
	}
	return fmt.Sprintf("openrouter: %s (%s)", e.Message, e.Code())
}

// Code returns the short error code, e.g. "MISSING_CONTENT" or "API_ERROR_503".
func (e *ServiceError) Code() string {
	if e.Kind == KindAPIError && e.Status > 0 {
		return fmt.Sprintf("%s_%d", KindAPIError, e.Status)
	}
	return string(e.Kind)
}

// Unwrap returns the wrapped cause, if any.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ServiceError of the same kind. A target with
// a zero Status matches every status.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// Retryable reports whether the failure is a 5xx API error.
func (e *ServiceError) Retryable() bool {
	return e.Kind == KindAPIError && e.Status >= 500 && e.Status <= 599
}

// AsServiceError unwraps err to a *ServiceError.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func newError(kind Kind, message string, details any) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Details: details}
}

func apiError(status int, details any) *ServiceError {
	return &ServiceError{
		Kind:    KindAPIError,
		Status:  status,
		Message: fmt.Sprintf("API request failed with status %d", status),
		Details: details,
	}
}

func wrapError(kind Kind, message string, details any, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Details: details, Err: cause}
}
