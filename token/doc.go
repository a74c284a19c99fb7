// Package token decodes the expiry claim embedded in a bearer credential.
//
// # Design
//
// The credential is a three-segment signed claims token. This package never
// verifies the signature; the remote endpoint is the authority. It performs a
// strict typed decode of the claims segment to read exp for local optimistic
// expiry checks. A token whose claims cannot be decoded simply carries no
// usable expiry, which safely degrades to relying on server-side validation.
//
// # What this package must NOT do
//
//   - Accept a token as valid. Absence of local expiry is not validity.
//   - Import any sibling package.
package token
