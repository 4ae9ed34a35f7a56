// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account created at registration. Accounts are immutable after
// creation; PasswordHash is a fixed one-way hex digest of the password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
