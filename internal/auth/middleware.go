package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type for this package's context keys.
//
// context.WithValue keys are compared by type AND value; using a private type
// means no other package can read or shadow the claims we store — only code in
// this package can mint a key of type contextKey.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth guards the self-service routes (update/delete).
//
// It reads the bearer token from the Authorization header, verifies the
// signature, and stores the decoded identity claims in the request context.
// Missing or invalid tokens short-circuit with 401 — the wrapped handler is
// never invoked. Every request is verified independently; there is no session
// store and no revocation list, so possession of a validly signed token IS
// the identity.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid bearer token required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified identity claims set by RequireAuth.
// Returns (nil, false) when the request never passed the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// extractClaims pulls the token out of "Authorization: Bearer <token>" and
// validates it. The scheme comparison is case-insensitive per RFC 7235.
func extractClaims(r *http.Request, tokens *TokenService) (*Claims, error) {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil, errNoToken
	}

	return tokens.Validate(strings.TrimSpace(header[len(prefix):]))
}
