// Package repository declares the storage interfaces the service layer
// depends on. The service programs against these interfaces; the concrete
// SQLite implementation lives in repository/sqlite. Tests substitute
// hand-written fakes.
package repository

import (
	"context"

	"github.com/sakif/account-service/internal/model"
)

// UserRepository is the persistence contract for user records.
//
// Every method is a single point query or statement — there are no
// multi-statement transactions. Uniqueness of user_id, username, email, and
// validation_key is enforced by store-level constraints, not by these methods;
// a duplicate surfaces as an error from Create/Update.
type UserRepository interface {
	// Create inserts a new record. The caller supplies UserID, ValidationKey,
	// and the password hash; the implementation stamps CreationDate.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the record for a user id, or apperror.ErrNotFound.
	GetByID(ctx context.Context, userID string) (*model.User, error)

	// GetByEmail returns the record for an email, or apperror.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByValidationKey returns the record holding the given validation key,
	// or apperror.ErrNotFound. The key is never cleared, so a second lookup
	// after validation still succeeds.
	GetByValidationKey(ctx context.Context, key string) (*model.User, error)

	// EmailValidated reports whether a row exists matching both the email and
	// validated=true. Login uses this as a separate check so "wrong password"
	// and "not yet validated" stay distinguishable failures.
	EmailValidated(ctx context.Context, email string) (bool, error)

	// MarkValidated sets validated=true for the given user id. Unconditional:
	// re-marking an already-validated row is a silent no-op.
	MarkValidated(ctx context.Context, userID string) error

	// Update overwrites username, email, and the password hash for the given
	// user id. No partial updates; no uniqueness pre-check beyond constraints.
	Update(ctx context.Context, user *model.User) error

	// Delete physically removes the record. No soft-delete.
	Delete(ctx context.Context, userID string) error
}
