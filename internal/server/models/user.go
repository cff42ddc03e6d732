// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is an encoded argon2id hash
// and never leaves the server.
type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	MobileNumber string
	PasswordHash string
	CreatedAt    time.Time
}
