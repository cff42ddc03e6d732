// Package models defines the client-side auth data: the user record returned
// by the backend, the cached session, remembered credentials and the pending
// one-time-code challenge.
package models

// User is the identity record returned by the backend. The client only
// holds a read-only copy.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// DisplayName returns the name to greet the user with.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Name
}

// Session is the cached authentication state. A nil User with a nil Err
// means "not logged in", which is not an error.
type Session struct {
	User      *User
	IsLoading bool
	Err       error
}

// Authenticated reports whether a user is present.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// RememberedCredentials is the remember-me state persisted locally.
// Username is empty whenever RememberEnabled is false.
type RememberedCredentials struct {
	Username        string
	RememberEnabled bool
}

// PendingOTP is the in-memory state between issuing a code and verifying it.
type PendingOTP struct {
	MobileNumber string
}
