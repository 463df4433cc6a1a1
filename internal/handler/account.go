// Package handler contains the HTTP request handlers for the account service.
//
// Handlers are the glue between HTTP and the service layer: they decode the
// request, call one AccountService operation, and shape the JSON response.
// No business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/service"
)

// AccountHandler exposes the five account operations over HTTP:
//
//	POST   /register                  → HandleRegister
//	GET    /validate/{validation_key} → HandleValidate
//	POST   /login                     → HandleLogin
//	PUT    /user/updateUser           → HandleUpdate  (bearer token required)
//	DELETE /user/deleteUser           → HandleDelete  (bearer token required)
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// credentialsBody is the request shape shared by register, login, and update —
// each endpoint just ignores the fields it doesn't use.
type credentialsBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// identity is the user echo inside the login response. It is the decoded
// token payload, not the full row — no hash, no validation key.
type identity struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Validated bool   `json:"validated"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /register, body {username, email, password}
//
// 200 responses carry the stored row verbatim — including the bcrypt hash and
// the validation key. Exposing those is long-standing observed behavior that
// existing clients rely on, so it is preserved rather than quietly trimmed.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid register body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	user, err := h.accounts.Register(r.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleValidate confirms account ownership via the mailed validation key.
//
// HTTP: GET /validate/{validation_key}
//
// Safe to replay: the lookup is by key, and the key survives validation.
func (h *AccountHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "validation_key")

	user, err := h.accounts.Validate(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	// TODO: the username field below echoes the email — matches the historical
	// response byte-for-byte, but confirm with product whether it was ever
	// intended before changing it to user.Username.
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Validation successful",
		"username": user.Email,
		"email":    user.Email,
	})
}

// HandleLogin authenticates and issues a bearer token.
//
// HTTP: POST /login, body {email, password}
// Response: {message, user: {user_id, username, email, validated}, token}
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid login body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	result, err := h.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user": identity{
			UserID:    result.User.UserID,
			Username:  result.User.Username,
			Email:     result.User.Email,
			Validated: result.User.Validated,
		},
		"token": result.Token,
	})
}

// HandleUpdate replaces username, email, and password for the caller.
//
// HTTP: PUT /user/updateUser, bearer token required, body {username, email, password}
//
// The user id comes from the VERIFIED token claims, never from the body — a
// caller can only ever update themselves. The response echoes the raw
// password from the request (observed behavior, preserved; see DESIGN notes).
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't panic if miswired.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid bearer token required"})
		return
	}

	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid update body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	user, err := h.accounts.Update(r.Context(), claims.UserID, body.Username, body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "User data has been updated",
		"user_id":  user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"password": body.Password,
	})
}

// HandleDelete permanently removes the caller's account.
//
// HTTP: DELETE /user/deleteUser, bearer token required, body {password}
//
// The password is required again on top of the token because deletion is
// irreversible.
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid bearer token required"})
		return
	}

	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid delete body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	if err := h.accounts.Delete(r.Context(), claims.UserID, body.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User has been deleted"})
}
