package handler

// RESPONSE HELPERS:
// Every handler funnels its output through writeJSON / writeError so the
// API's envelope stays consistent. Error responses always look like:
//
//	{"error": "not_found", "message": "Email not found"}
//
// and the status code comes from the domain error, mapped here and nowhere
// else — the service layer never sees HTTP.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/account-service/internal/apperror"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response. Headers and status must be written before
// the body — once Encode starts writing, header changes are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and writes the envelope.
//
// Mapping: ErrValidation → 400, ErrNotFound → 404, ErrUnauthorized → 401,
// anything else → 500.
//
// The 500 branch surfaces the raw underlying message. That is how this API
// has always behaved — clients tell a duplicate username from a duplicate
// email by reading the constraint error text. It leaks driver internals.
// TODO: introduce a structured conflict response so the raw store message can
// stop being the contract, then coordinate the client migration.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
