package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// =========================================================================
// SENTINEL MATCHING TESTS
// =========================================================================

func TestMissingFields_IsValidation(t *testing.T) {
	err := MissingFields()

	if !errors.Is(err, ErrValidation) {
		t.Error("MissingFields() should match ErrValidation")
	}
	if err.Message != "Missing required fields" {
		t.Errorf("Message = %q, want %q", err.Message, "Missing required fields")
	}
}

func TestNotFound_IsNotFound(t *testing.T) {
	err := NotFound("Email not found")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("NotFound() should not match ErrUnauthorized")
	}
}

func TestUnauthorized_IsUnauthorized(t *testing.T) {
	err := Unauthorized("Password incorrect")

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("Unauthorized() should match ErrUnauthorized")
	}
	if err.Error() != "Password incorrect" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Password incorrect")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "email is required")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
}

// =========================================================================
// WRAPPING TESTS
// =========================================================================

// Service code wraps AppErrors with fmt.Errorf("...: %w", err) — errors.Is
// must still find the sentinel through the whole chain, and errors.As must
// still extract the *AppError for its message.
func TestWrappedAppError_StillMatches(t *testing.T) {
	inner := NotFound("User id not found.")
	wrapped := fmt.Errorf("deleting account: %w", inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *AppError from the chain")
	}
	if appErr.Message != "User id not found." {
		t.Errorf("Message = %q, want %q", appErr.Message, "User id not found.")
	}
}

func TestUnwrap_ReturnsSentinel(t *testing.T) {
	err := Unauthorized("nope")

	if err.Unwrap() != ErrUnauthorized {
		t.Errorf("Unwrap() = %v, want ErrUnauthorized", err.Unwrap())
	}
}
