package state

import "time"

// Role is the privilege level of an administrative principal.
type Role string

const (
	// RoleOperator is the base administrative privilege level.
	RoleOperator Role = "operator"
	// RoleSuperOperator is the highest privilege level. It satisfies every
	// role requirement, including RoleOperator.
	RoleSuperOperator Role = "super_operator"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleOperator || r == RoleSuperOperator
}

// Satisfies reports whether r meets the required privilege level. A super
// operator satisfies any requirement; an operator satisfies only an operator
// requirement.
func (r Role) Satisfies(required Role) bool {
	return r == required || r == RoleSuperOperator
}

// Principal is the immutable snapshot of the authenticated administrative
// identity. It is refreshed only by re-fetching from the endpoint.
type Principal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session pairs a live bearer token with the principal it authenticates. A
// token without a principal, or the reverse, is never a session.
//
// ExpiresAt is taken from the login response when present, otherwise from
// the token's embedded expiry claim. A zero ExpiresAt means no usable local
// expiry is known and server-side validation is the only authority.
type Session struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}

// complete reports whether s holds both halves of a session.
func (s *Session) complete() bool {
	return s != nil && s.Token != "" && s.Principal.ID != 0
}
