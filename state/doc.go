// Package state holds the current authenticated session and broadcasts
// transitions to observers.
//
// # Design
//
// Holder is the single source of truth consulted by every other component.
// The session value is swapped as one struct under a mutex, so a reader can
// never observe a token without its principal or the reverse. Observation is
// a subscriber registry of buffered latest-wins channels: the newest value
// replaces an undelivered older one, and a new subscriber immediately
// receives the current value.
//
// # Architecture boundaries
//
// This package owns the session data model (Role, Principal, Session) and
// its observation. Writing is reserved to the session manager; guard and
// authenticator code only reads.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls. It only reflects what was written.
//   - Import any sibling package.
package state
