// Package middleware provides the two pipeline stages that connect the
// session core to the rest of the back-office client: Authenticator, an
// http.RoundTripper that attaches the bearer credential to protected-prefix
// requests and reacts to authorization failures in responses, and Guard,
// the gate evaluated before entering protected views.
//
// Both stages only read session state; any session repair is delegated to
// the Manager, which stays the single writer.
package middleware
