// Package store persists the last known credential record across process
// restarts.
//
// # Design
//
// A record is two string-ish values, the bearer token and the serialized
// principal, always written and cleared as a unit. Three backings are
// provided: FileStore (a JSON file, the localStorage equivalent for a native
// client), RedisStore (two keys under a prefix, written atomically), and
// MemStore (tests and ephemeral sessions).
//
// Corruption is absence: a backing that finds malformed or half-present data
// reports no record rather than an error, and the caller treats that as "no
// stored session".
//
// # What this package must NOT do
//
//   - Interpret the principal payload. It stores bytes; decoding belongs to
//     the session manager.
//   - Import any sibling package.
package store
