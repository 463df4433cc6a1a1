// Package apperror defines the domain error taxonomy shared by all layers.
//
// The service layer returns these instead of HTTP status codes — the HTTP
// handlers translate them in one place (handler.writeError). This keeps the
// business logic transport-agnostic.
//
// The taxonomy is deliberately small:
//
//	ErrValidation   → the client sent incomplete input (400)
//	ErrNotFound     → no matching record or key (404)
//	ErrUnauthorized → credential or token mismatch (401)
//
// Anything else (constraint violations, driver failures) is an unexpected
// store/library error and maps to 500.
package apperror

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel error plus a human-readable message.
//
// errors.Is(err, apperror.ErrNotFound) works on a wrapped *AppError because
// Unwrap exposes the sentinel — handlers use that for status mapping while the
// Message travels to the client verbatim.
type AppError struct {
	Err     error  // sentinel, one of the vars above
	Message string // human-readable, sent to the client
	Field   string // optional: the input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// MissingFields reports incomplete client input. The message string is part of
// the API's observed behavior — clients match on it, so it stays word-for-word.
func MissingFields() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "Missing required fields",
	}
}

// ValidationFailed reports a field-level validation problem.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NotFound reports a missing record, key, or unvalidated account.
// The caller supplies the message; the texts differ per lookup and are part of
// the API contract (e.g. "Email not found" vs the validation-pending message).
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// Unauthorized reports a credential or token mismatch.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
