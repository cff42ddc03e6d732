package models

import "time"

// Session is a server-side login. The session token names it by ID; deleting
// the row ends the session even while the token itself is unexpired.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has lapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
