package models

import "time"

// OTPChallenge is a one-time code issued to a mobile number. Only the hash
// of the code is stored.
type OTPChallenge struct {
	ID           string
	MobileNumber string
	CodeHash     string
	Attempts     int
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the challenge can no longer be used at now.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
