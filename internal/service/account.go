// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates input, enforces rules, orchestrates
//	Repository (data)  → point queries against the store
//
// AccountService takes the repository INTERFACE, not the concrete SQLite
// type — tests inject an in-memory fake, and the store could be swapped
// without touching this package.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// notValidatedMsg is sent when a login presents the right password for an
// account that never clicked its validation link. Kept verbatim — it is part
// of the API's observed behavior.
const notValidatedMsg = "Email has not been validated. Please check your email inbox for validation link. Might wanna check your spam folder too."

// AccountService orchestrates the five account operations: register,
// validate, login, update, delete.
//
// Dependencies (all injected):
//   - users     repository.UserRepository → record storage
//   - passwords *auth.PasswordService     → bcrypt hashing/verification
//   - tokens    *auth.TokenService        → bearer token issuance
//   - logger    *slog.Logger              → structured logging
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService. Wired once in server.New.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// LoginResult bundles what a successful login hands back: the stored record
// (for the identity echo in the response) and the signed bearer token.
type LoginResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// All three fields are required — any absent one is reported (MissingFields),
// not defaulted. A fresh user_id and validation_key are generated per call;
// xid collisions are negligible so there is no retry loop, and the rare clash
// surfaces loudly as a store constraint failure rather than silently.
//
// The returned record is exactly what was stored, hash included — the
// register endpoint has always exposed the full row.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperror.MissingFields()
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		UserID:        xid.New().String(),
		Username:      username,
		Email:         email,
		Password:      hash,
		ValidationKey: xid.New().String(),
		Validated:     false,
	}

	// Duplicate username/email races resolve at the store's UNIQUE
	// constraints; the raw error propagates to the 500 path.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.UserID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Validate flips an account to validated via its validation key.
//
// The lookup is by key, not by current validation state, so replaying the
// same link after success is safe: the row is found again and validated is
// set to true again, a no-op. An unknown key is NotFound.
func (s *AccountService) Validate(ctx context.Context, validationKey string) (*model.User, error) {
	user, err := s.users.GetByValidationKey(ctx, validationKey)
	if err != nil {
		return nil, err
	}

	if err := s.users.MarkValidated(ctx, user.UserID); err != nil {
		return nil, err
	}
	user.Validated = true

	s.logger.Info("user validated", slog.String("userID", user.UserID))

	return user, nil
}

// Login authenticates by email and password and issues a bearer token.
//
// The failure ladder is deliberate and ordered — each rung is a distinct
// signal to the client:
//
//	missing field     → MissingFields (400)
//	unknown email     → NotFound "Email not found" (404)
//	wrong password    → Unauthorized "Password incorrect" (401)
//	not yet validated → NotFound with the validation-pending message (404)
//
// The validation check runs as a second query for (email, validated=true)
// AFTER the password check, so an unvalidated account with correct
// credentials is told to go validate, not that its password is wrong.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperror.MissingFields()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		return nil, apperror.Unauthorized("Password incorrect")
	}

	validated, err := s.users.EmailValidated(ctx, email)
	if err != nil {
		return nil, err
	}
	if !validated {
		return nil, apperror.NotFound(notValidatedMsg)
	}

	token, err := s.tokens.Generate(auth.Claims{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		Validated: user.Validated,
	})
	if err != nil {
		return nil, fmt.Errorf("service/account: generating token for user %s: %w", user.UserID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.UserID))

	return &LoginResult{User: user, Token: token}, nil
}

// Update overwrites username, email, and password for the authenticated user.
//
// There are no partial-update semantics: all three fields are expected, and a
// missing one is an error path (MissingFields) — never a silent skip of the
// hashing step. The overwrite itself is unconditional; a username/email
// collision with another account resolves at the store constraints.
//
// The record is read back after the write and returned refreshed. The write
// and read-back are separate statements, not a transaction — a concurrent
// delete in between loses the read-back, and the caller sees that error even
// though the update applied.
func (s *AccountService) Update(ctx context.Context, userID, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperror.MissingFields()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user.Username = username
	user.Email = email
	user.Password = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	refreshed, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("userID", userID))

	return refreshed, nil
}

// Delete permanently removes the authenticated user's account.
//
// The password is re-verified even though the caller already holds a valid
// token — deletion is irreversible, so possession of the bearer token alone
// is not enough. Mismatch is Unauthorized; unknown user id is NotFound.
func (s *AccountService) Delete(ctx context.Context, userID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		return apperror.Unauthorized("Password incorrect")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("userID", userID))

	return nil
}
