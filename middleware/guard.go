package middleware

import (
	"context"
	"net/url"

	folioauth "github.com/devgmz/folioauth"
)

// Route is the static metadata of a protected view.
type Route struct {
	// Path is the view path being entered, used as the return URL on denial.
	Path string
	// RequiredRole, when set, additionally requires the principal to satisfy
	// this role. Empty means any authenticated principal may enter.
	RequiredRole folioauth.Role
	// DoubleCheck asks the guard to spend one Validate round trip confirming
	// server-side validity before deciding. Off by default: guard decisions
	// are local and synchronous.
	DoubleCheck bool
}

// Guard gates entry to protected views. It reads session state and never
// writes it; denial produces a navigation side effect and a false decision.
type Guard struct {
	mgr *folioauth.Manager
	nav folioauth.Navigator
}

// NewGuard creates a route guard.
func NewGuard(mgr *folioauth.Manager, nav folioauth.Navigator) *Guard {
	return &Guard{mgr: mgr, nav: nav}
}

// Evaluate decides one navigation attempt. On allow it returns a context
// carrying the authenticated principal and true. On deny it returns false
// after redirecting: to the login view with the attempted path as returnUrl
// when the user is not authenticated, or to the landing view with an
// insufficient-permissions notice when the user is authenticated but
// under-privileged.
func (g *Guard) Evaluate(ctx context.Context, route Route) (context.Context, bool) {
	if route.DoubleCheck {
		// At most one server round trip per navigation attempt. The result
		// updates session state, which the checks below consult.
		g.mgr.Validate(ctx)
	}

	if !g.mgr.IsAuthenticated() {
		g.deny(ctx, route, "unauthenticated")

		q := url.Values{}
		if route.Path != "" {
			q.Set("returnUrl", route.Path)
		}
		g.nav.Navigate(g.mgr.Routes().Login, q)
		return ctx, false
	}

	if route.RequiredRole != "" && !g.mgr.HasRole(route.RequiredRole) {
		g.deny(ctx, route, "insufficient_permissions")

		q := url.Values{}
		q.Set("error", "insufficient_permissions")
		g.nav.Navigate(g.mgr.Routes().Landing, q)
		return ctx, false
	}

	g.mgr.Metrics().Inc(folioauth.MetricGuardAllowed)
	if p := g.mgr.Principal(); p != nil {
		ctx = folioauth.ContextWithPrincipal(ctx, *p)
	}
	return ctx, true
}

func (g *Guard) deny(ctx context.Context, route Route, reason string) {
	g.mgr.Metrics().Inc(folioauth.MetricGuardDenied)
	g.mgr.Auditor().Emit(ctx, folioauth.AuditEvent{
		EventType: folioauth.AuditGuardDenied,
		Route:     route.Path,
		Error:     reason,
	})
}
