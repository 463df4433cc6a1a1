// Package auth provides the credential and token primitives for the account
// service: bcrypt password hashing, JWT issuance/verification, and the
// middleware that guards the self-service routes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for new hashes.
//
// bcrypt is deliberately slow — that slowness is the defense against offline
// brute-force. Cost 12 lands around 250ms per hash on current server hardware,
// which is fine for register/login traffic. Old rows hashed at a lower cost
// keep verifying: the cost is embedded in the stored hash string.
const defaultCost = 12

// PasswordService hashes and verifies account passwords.
//
// The cost is injected (rather than a package-level constant baked into free
// functions) so tests can run at bcrypt's minimum cost instead of paying
// ~250ms per operation.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with an explicit cost.
// Use bcrypt's minimum (4) in tests; never in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext.
//
// The output is self-contained (version, cost, and salt are all encoded in the
// string) and goes straight into the password column. Two users with the same
// password get different hashes — bcrypt salts every call.
//
// bcrypt silently truncates input beyond 72 bytes, so we reject longer
// passwords explicitly rather than hash a prefix.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks plaintext against a stored hash. Returns nil on match.
//
// bcrypt.CompareHashAndPassword is constant-time internally, so response
// timing doesn't leak how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
