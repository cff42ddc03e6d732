// Package cli provides the interactive arestate command-line client.
//
// It wires configuration, local storage, the REST client and the auth
// services into a REPL. On start it resolves the current session, then
// accepts commands until the user exits.
//
// Key features:
//   - Login by username, email or mobile number, with remember-me
//   - Register by username, email or mobile number
//   - One-time-code challenge: request, verify, resend, cancel
//   - whoami / logout / remember on|off / forget
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
