// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. The Client interface: the backend auth contract (Me, Login, Register,
//     GenerateOTP, VerifyOTP, Logout, Ping).
//  2. RESTClient, a resty-based implementation. The backend keeps the session
//     in a cookie; RESTClient holds it in the resty cookie jar.
//  3. InitDatabase / RunMigrations, which open the local SQLite database and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable, HTTP 401 is ErrUnauthorized and any
// other non-2xx status is an *APIError carrying the server message. Match with
// errors.Is / errors.As. Requests are never retried and no timeout is set
// here; the caller's context and the transport decide.
package client
