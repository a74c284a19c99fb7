package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	c, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Subject != "42" {
		t.Errorf("Subject = %q, want %q", c.Subject, "42")
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"not a token", "opaque-session-id"},
		{"two segments", "aaaa.bbbb"},
		{"garbage segments", "aaaa.bbbb.cccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.tok); err == nil {
				t.Error("Decode() should fail on a malformed token")
			}
		})
	}
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := Expiry(signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}))
	if err != nil {
		t.Fatalf("Expiry() error = %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("Expiry() = %v, want %v", got, exp)
	}

	_, err = Expiry(signed(t, jwt.RegisteredClaims{Subject: "42"}))
	if !errors.Is(err, ErrNoExpiry) {
		t.Errorf("Expiry() on token without exp = %v, want ErrNoExpiry", err)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		tok  string
		want bool
	}{
		{
			"future expiry",
			signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
			false,
		},
		{
			"past expiry",
			signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))}),
			true,
		},
		{
			// No local claim to judge by: defer to the server.
			"no exp claim",
			signed(t, jwt.RegisteredClaims{Subject: "42"}),
			false,
		},
		{
			// Opaque tokens are not locally judged either.
			"undecodable token",
			"opaque-session-id",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(tt.tok, now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
