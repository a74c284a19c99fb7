package folioauth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the endpoint rejects
	// the submitted email/password as a validation failure. The caller shows
	// it inline on the login form; it is user-correctable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNetworkUnavailable is returned when the endpoint could not be
	// reached at all. Transient; the user may retry the same action.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrServerError is returned on a 5xx endpoint fault. Opaque; the user
	// is advised to retry later.
	ErrServerError = errors.New("server error")
	// ErrUnauthorized marks a session the endpoint no longer accepts. It is
	// handled by automatic teardown plus redirect, never shown as a form
	// error.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a valid session with insufficient privilege.
	ErrForbidden = errors.New("forbidden")
	// ErrManagerClosed is returned by Manager operations after Close.
	ErrManagerClosed = errors.New("manager closed")
)
