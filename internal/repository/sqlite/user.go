package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `user_id, username, email, password, validation_key, validated, creation_date`

// Create inserts a new user row.
//
// The caller (the account service) has already generated UserID and
// ValidationKey and hashed the password. We stamp CreationDate here rather
// than rely on the column default so the struct handed back to the caller
// matches what was stored, without a read-back.
//
// A clash on any UNIQUE column (user_id, username, email, validation_key)
// comes back as the driver's constraint error — deliberately not translated,
// it maps to the 500 path upstream.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.CreationDate = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (user_id, username, email, password, validation_key, validated, creation_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.UserID,
		user.Username,
		user.Email,
		user.Password,
		user.ValidationKey,
		user.Validated,
		user.CreationDate,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.UserID, err)
	}

	return nil
}

// GetByID retrieves a user by user_id.
// Returns apperror.ErrNotFound if no row matches.
func (db *DB) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return db.getUser(ctx, `user_id`, userID, "User id not found.")
}

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email`, email, "Email not found")
}

// GetByValidationKey retrieves a user by validation key. The key column is
// never cleared, so this works before and after validation.
func (db *DB) GetByValidationKey(ctx context.Context, key string) (*model.User, error) {
	return db.getUser(ctx, `validation_key`, key,
		"Validation key invalid. Please make sure correct link is used")
}

// getUser runs the shared single-row lookup. The column name comes from the
// three callers above, never from user input.
func (db *DB) getUser(ctx context.Context, column, value, notFoundMsg string) (*model.User, error) {
	var u model.User
	var validated int64

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value,
	).Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.ValidationKey,
		&validated,
		&u.CreationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(notFoundMsg)
		}
		return nil, fmt.Errorf("sqlite: getting user by %s: %w", column, err)
	}

	u.Validated = validated != 0
	return &u, nil
}

// EmailValidated reports whether a row matches (email, validated=true).
//
// Login calls this AFTER the password check so an unvalidated account with a
// correct password gets its own distinct failure instead of a generic one.
func (db *DB) EmailValidated(ctx context.Context, email string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ? AND validated = 1`, email,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking validation for %s: %w", email, err)
	}
	return true, nil
}

// MarkValidated flips validated to true for the given user id.
//
// No guard on the current value — marking an already-validated row again is a
// harmless no-op, which is what makes replaying a validation link safe.
func (db *DB) MarkValidated(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET validated = 1 WHERE user_id = ?`, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking user %s validated: %w", userID, err)
	}
	return nil
}

// Update overwrites username, email, and password hash for the user id.
//
// Uniqueness of the new username/email is left to the constraints — a
// collision comes back as a raw constraint error (500 upstream), same as
// registration races.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password = ? WHERE user_id = ?`,
		user.Username,
		user.Email,
		user.Password,
		user.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.UserID, err)
	}
	return nil
}

// Delete physically removes the row. Deleting a missing id is not an error at
// this layer; the service checks existence first.
func (db *DB) Delete(ctx context.Context, userID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE user_id = ?`, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", userID, err)
	}
	return nil
}
