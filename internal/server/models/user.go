// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. PasswordHash is a bcrypt hash and must never be
// exposed in API responses.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Location     string
	CreatedAt    time.Time

	// Boxes is the user's collection in insertion order. Append-only:
	// boxes are never updated or removed except when the account itself
	// is deleted.
	Boxes []Box
}
