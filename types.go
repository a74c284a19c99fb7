package folioauth

import (
	"context"
	"net/url"
	"time"

	"github.com/devgmz/folioauth/state"
)

// Role is the privilege level of an administrative principal. There are
// exactly two levels; [RoleSuperOperator] satisfies any requirement.
type Role = state.Role

const (
	// RoleOperator is the base administrative privilege level.
	RoleOperator = state.RoleOperator
	// RoleSuperOperator is the highest privilege level. It satisfies every
	// role requirement, including RoleOperator.
	RoleSuperOperator = state.RoleSuperOperator
)

// Principal is the immutable snapshot of the authenticated administrative
// identity.
type Principal = state.Principal

// Session pairs a live bearer token with the principal it authenticates.
type Session = state.Session

// Subscription is an observer registration on the session state stream.
type Subscription = state.Subscription

// Credentials is the login input.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by the endpoint's login operation.
type LoginResult struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}

// Endpoint is the remote authentication collaborator. Implementations must
// classify every failure into one of the package sentinel errors
// ([ErrInvalidCredentials], [ErrUnauthorized], [ErrForbidden],
// [ErrNetworkUnavailable], [ErrServerError]); no raw transport error may
// escape. The default implementation is built by [Builder.Build] from
// [EndpointConfig]; tests substitute their own.
type Endpoint interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
	Logout(ctx context.Context, bearer string) error
	WhoAmI(ctx context.Context, bearer string) (Principal, error)
}

// Navigator is the embedding application's view router. The middleware
// stages call it to redirect on authorization failures; it must be safe for
// concurrent use and must not call back into the Manager synchronously.
type Navigator interface {
	// Navigate moves the UI to the given view path with optional query
	// parameters (returnUrl, error).
	Navigate(path string, query url.Values)

	// CurrentPath returns the view path currently displayed, used to avoid
	// redundant redirects to the login view.
	CurrentPath() string
}
