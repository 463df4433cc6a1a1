package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/handler"
	sqliteRepo "github.com/sakif/account-service/internal/repository/sqlite"
	"github.com/sakif/account-service/internal/service"
)

// newTestRouter wires the real stack — chi router, account handlers,
// RequireAuth, in-memory SQLite — so these tests exercise the same path a
// production request takes, minus the listener.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err, "opening in-memory database")
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 0)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)

	accounts := service.NewAccountService(db, passwords, tokens, logger)
	h := handler.NewAccountHandler(accounts, logger)

	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Get("/validate/{validation_key}", h.HandleValidate)
	r.Route("/user", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Put("/updateUser", h.HandleUpdate)
		r.Delete("/deleteUser", h.HandleDelete)
	})
	r.Get("/health", handler.NewHealthHandler(db).HandleHealth)

	return r
}

// do sends a JSON request through the router and decodes the response body
// into a generic map.
func do(t *testing.T, r chi.Router, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded),
			"response body should be JSON: %s", rr.Body.String())
	}
	return rr.Code, decoded
}

func TestAccountLifecycle(t *testing.T) {
	r := newTestRouter(t)

	// --- register ---
	status, body := do(t, r, http.MethodPost, "/register",
		`{"username":"ann","email":"ann@x.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ann", body["username"])
	assert.Equal(t, false, body["validated"])
	assert.NotEmpty(t, body["user_id"])
	assert.NotEmpty(t, body["validation_key"])
	// the stored hash comes back, and it is not the plaintext
	assert.NotEmpty(t, body["password"])
	assert.NotEqual(t, "pw1", body["password"])

	validationKey := body["validation_key"].(string)

	// --- login before validation: distinct 404 ---
	status, body = do(t, r, http.MethodPost, "/login",
		`{"email":"ann@x.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["message"], "has not been validated")

	// --- validate ---
	status, body = do(t, r, http.MethodGet, "/validate/"+validationKey, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Validation successful", body["message"])
	// historical quirk: username field carries the email
	assert.Equal(t, "ann@x.com", body["username"])
	assert.Equal(t, "ann@x.com", body["email"])

	// --- validate again: replay is safe ---
	status, _ = do(t, r, http.MethodGet, "/validate/"+validationKey, "", "")
	require.Equal(t, http.StatusOK, status)

	// --- login ---
	status, body = do(t, r, http.MethodPost, "/login",
		`{"email":"ann@x.com","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user := body["user"].(map[string]any)
	assert.Equal(t, "ann", user["username"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.Equal(t, true, user["validated"])

	// --- update ---
	status, body = do(t, r, http.MethodPut, "/user/updateUser",
		`{"username":"ann2","email":"ann2@x.com","password":"pw2"}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User data has been updated", body["message"])
	assert.Equal(t, "ann2", body["username"])
	assert.Equal(t, "ann2@x.com", body["email"])
	// the raw password is echoed back — preserved behavior
	assert.Equal(t, "pw2", body["password"])

	// old password no longer logs in
	status, _ = do(t, r, http.MethodPost, "/login",
		`{"email":"ann2@x.com","password":"pw1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// new password does
	status, _ = do(t, r, http.MethodPost, "/login",
		`{"email":"ann2@x.com","password":"pw2"}`, "")
	require.Equal(t, http.StatusOK, status)

	// --- delete ---
	status, body = do(t, r, http.MethodDelete, "/user/deleteUser",
		`{"password":"pw2"}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User has been deleted", body["message"])

	// the account is gone
	status, _ = do(t, r, http.MethodPost, "/login",
		`{"email":"ann2@x.com","password":"pw2"}`, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRegister_ErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	t.Run("missing field", func(t *testing.T) {
		status, body := do(t, r, http.MethodPost, "/register",
			`{"username":"ann","password":"pw1"}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Missing required fields", body["message"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		status, _ := do(t, r, http.MethodPost, "/register", `{not json`, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("duplicate email is a store error", func(t *testing.T) {
		status, _ := do(t, r, http.MethodPost, "/register",
			`{"username":"dup","email":"dup@x.com","password":"pw"}`, "")
		require.Equal(t, http.StatusOK, status)

		status, body := do(t, r, http.MethodPost, "/register",
			`{"username":"dup2","email":"dup@x.com","password":"pw"}`, "")
		assert.Equal(t, http.StatusInternalServerError, status)
		// the raw constraint message is surfaced — observed behavior
		assert.Contains(t, body["message"], "constraint")
	})
}

func TestLogin_ErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		status, body := do(t, r, http.MethodPost, "/login", `{"email":"a@x.com"}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Missing required fields", body["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		status, body := do(t, r, http.MethodPost, "/login",
			`{"email":"nobody@x.com","password":"pw"}`, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Email not found", body["message"])
	})
}

func TestValidate_UnknownKey(t *testing.T) {
	r := newTestRouter(t)

	status, body := do(t, r, http.MethodGet, "/validate/bogus-key", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["message"], "Validation key invalid")
}

func TestAuthGate(t *testing.T) {
	r := newTestRouter(t)

	t.Run("no token", func(t *testing.T) {
		status, _ := do(t, r, http.MethodPut, "/user/updateUser",
			`{"username":"x","email":"x@x.com","password":"pw"}`, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := do(t, r, http.MethodDelete, "/user/deleteUser",
			`{"password":"pw"}`, "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := auth.NewTokenService("a-completely-different-secret!!", 0)
		require.NoError(t, err)
		forged, err := other.Generate(auth.Claims{UserID: "someone"})
		require.NoError(t, err)

		status, _ := do(t, r, http.MethodDelete, "/user/deleteUser",
			`{"password":"pw"}`, forged)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

// A valid token whose account was deleted out from under it: the Auth Gate
// passes (stateless verification), the service reports 404.
func TestUpdate_TokenForDeletedUser(t *testing.T) {
	r := newTestRouter(t)

	status, body := do(t, r, http.MethodPost, "/register",
		`{"username":"tmp","email":"tmp@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, status)
	key := body["validation_key"].(string)

	status, _ = do(t, r, http.MethodGet, "/validate/"+key, "", "")
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, r, http.MethodPost, "/login",
		`{"email":"tmp@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, _ = do(t, r, http.MethodDelete, "/user/deleteUser", `{"password":"pw"}`, token)
	require.Equal(t, http.StatusOK, status)

	// token still verifies, but the record is gone
	status, body = do(t, r, http.MethodPut, "/user/updateUser",
		`{"username":"x","email":"x@x.com","password":"pw"}`, token)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User id not found.", body["message"])
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	status, body := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
