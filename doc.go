// Package folioauth implements the session and authentication core of a
// portfolio back-office client: establishing a session from credentials,
// persisting it across restarts, attaching it to outbound API calls, and
// reacting to authorization failures with deterministic recovery paths.
//
// The package is designed for concurrent client workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// folioauth is the public surface. It exposes [Manager], [Builder], [Config],
// the [Endpoint] and [Navigator] integration contracts, and value types
// (Principal, Session, AuditEvent, MetricsSnapshot). Cohesive leaves live in
// subpackages: state (observable session holder), store (credential
// persistence), token (claims decoding), middleware (request authenticator
// and route guard), metrics/export (metric exporters).
//
// # What this package must NOT do
//
//   - Render UI, perform navigation, or decide retry policy; those belong to
//     the embedding application, reached only through [Navigator].
//   - Verify token signatures. The remote endpoint is authoritative; only the
//     expiry claim is decoded locally for optimistic checks.
//   - Retry remote calls. Login, logout, and validation are one-shot; the
//     caller decides whether to try again.
//
// # Write discipline
//
// Session State has exactly one writer, the [Manager]. The middleware stages
// and all other consumers hold read access and delegate any session repair to
// the Manager, so the token and principal can never be observed half-updated.
package folioauth
