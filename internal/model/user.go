// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// FIELD NOTES:
//   - UserID is our own generated identifier (xid), not a database auto-increment.
//     String IDs keep the primary key independent of the storage engine and are
//     safe to expose in URLs and tokens.
//   - Password holds the bcrypt HASH, never the plaintext. The JSON tag is kept
//     because the register endpoint returns the stored row as-is — clients of the
//     original API depend on that shape.
//   - ValidationKey is the random key mailed to the user after registration.
//     It stays on the row even after validation succeeds; the validate endpoint
//     looks rows up by key, so replaying the link is harmless.
//   - Validated only ever moves false → true. Nothing resets it.
//
// WHY snake_case JSON TAGS?
// The response bodies mirror the table columns (the API has always returned
// row-shaped JSON), so the tags match the column names rather than camelCase.
type User struct {
	UserID        string    `json:"user_id"        db:"user_id"`
	Username      string    `json:"username"       db:"username"`
	Email         string    `json:"email"          db:"email"`
	Password      string    `json:"password"       db:"password"` // bcrypt hash
	ValidationKey string    `json:"validation_key" db:"validation_key"`
	Validated     bool      `json:"validated"      db:"validated"`
	CreationDate  time.Time `json:"creation_date"  db:"creation_date"`
}
