package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by Expiry when the token carries no decodable
// exp claim.
var ErrNoExpiry = errors.New("token has no usable expiry claim")

// Claims is the typed view of the claim fields this client reads. Anything
// else in the token is opaque.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

// Decode performs a strict parse of the token's claims segment without
// verifying the signature. It fails on malformed tokens rather than
// returning partial claims.
func Decode(tok string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(tok, &rc); err != nil {
		return Claims{}, err
	}

	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Expiry returns the embedded exp claim. It returns ErrNoExpiry when the
// token is malformed or the claim is absent.
func Expiry(tok string) (time.Time, error) {
	c, err := Decode(tok)
	if err != nil {
		return time.Time{}, err
	}
	if c.ExpiresAt.IsZero() {
		return time.Time{}, ErrNoExpiry
	}
	return c.ExpiresAt, nil
}

// Expired reports whether the token's embedded expiry has passed at the
// given instant. A token with no usable expiry claim is reported as not
// expired: the local check is optimistic only and the server remains the
// authority.
func Expired(tok string, now time.Time) bool {
	exp, err := Expiry(tok)
	if err != nil {
		return false
	}
	return !exp.After(now)
}
