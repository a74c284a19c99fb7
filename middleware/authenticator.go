package middleware

import (
	"net/http"
	"net/url"
	"strings"

	folioauth "github.com/devgmz/folioauth"
)

// Authenticator is a client pipeline stage applied to every outbound call.
// Requests whose URL path falls under the protected prefix get the current
// bearer credential and JSON content negotiation headers attached; requests
// outside the prefix pass through unmodified.
//
// Authorization failures in responses trigger recovery side effects. A 401
// tears the local session down and redirects to the login view carrying the
// current location; a 403 redirects to the landing view with a notice. In
// both cases the original response still reaches the caller, so upstream
// error handling observes the failure unchanged.
type Authenticator struct {
	mgr  *folioauth.Manager
	nav  folioauth.Navigator
	next http.RoundTripper
}

// NewAuthenticator wraps next with the session pipeline stage. A nil next
// uses http.DefaultTransport.
func NewAuthenticator(mgr *folioauth.Manager, nav folioauth.Navigator, next http.RoundTripper) *Authenticator {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authenticator{mgr: mgr, nav: nav, next: next}
}

// RoundTrip implements http.RoundTripper.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	protected := strings.HasPrefix(req.URL.Path, a.mgr.ProtectedPrefix())

	if protected {
		if tok := a.mgr.Token(); tok != "" {
			// RoundTrippers must not mutate the caller's request.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
			req.Header.Set("Accept", "application/json")
			if req.Header.Get("Content-Type") == "" && req.Body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			a.mgr.Metrics().Inc(folioauth.MetricTokenAttached)
		}
	}

	resp, err := a.next.RoundTrip(req)
	if err != nil || !protected {
		return resp, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		a.onUnauthorized(req)
	case http.StatusForbidden:
		a.onForbidden(req)
	}

	return resp, nil
}

// onUnauthorized performs exactly one local teardown and one redirect to
// the login view. The remote logout endpoint is not called: the 401 proves
// the server already considers the session dead.
func (a *Authenticator) onUnauthorized(req *http.Request) {
	ctx := req.Context()
	a.mgr.Invalidate(ctx)

	login := a.mgr.Routes().Login
	current := a.nav.CurrentPath()
	if current == login {
		return
	}

	returnURL := current
	if fromCtx := folioauth.ReturnURLFromContext(ctx); fromCtx != "" {
		returnURL = fromCtx
	}

	q := url.Values{}
	if returnURL != "" {
		q.Set("returnUrl", returnURL)
	}
	a.nav.Navigate(login, q)
}

// onForbidden redirects to the landing view: the session is valid, the
// privilege is not, so the session survives.
func (a *Authenticator) onForbidden(req *http.Request) {
	ctx := req.Context()
	a.mgr.Metrics().Inc(folioauth.MetricForbiddenRedirect)
	a.mgr.Auditor().Emit(ctx, folioauth.AuditEvent{
		EventType: folioauth.AuditForbiddenRedirect,
		Route:     req.URL.Path,
	})

	q := url.Values{}
	q.Set("error", "insufficient_permissions")
	a.nav.Navigate(a.mgr.Routes().Landing, q)
}
