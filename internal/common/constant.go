package common

// SessionCookieName is the default name of the cookie carrying the session
// token between the client and the backend.
const SessionCookieName = "rv_session"

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6
